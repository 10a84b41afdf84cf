// Package configs manages passy's on-disk layout and configuration.
//
// # Application Data
//
// Everything passy stores lives under one appdata directory:
//
//	<appdata>/config.toml        settings (this package)
//	<appdata>/audit.jsonl        audit trail
//	<appdata>/plugins/<id>/      installed plugins
//	<appdata>/<user>/            one encrypted vault per user
//
// The appdata directory is, in order of precedence, the --appdata flag,
// the PASSY_HOME environment variable, or "passy" under os.UserConfigDir().
// ResolveSettings creates it when it is missing.
//
// # Configuration
//
// config.toml is optional. Missing keys keep their defaults:
//
//	[vault]
//	cipher = "aes-256-gcm"       # or "chacha20-poly1305"
//
//	[plugins]
//	skip_broken = false          # true: a plugin that fails to load is skipped
//	resolve_per_call = true      # false: use the table built at load time
//
// Settings are plain values returned to the caller; nothing in this package
// is global.
package configs
