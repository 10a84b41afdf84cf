// Package errors provides typed error values for passy.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by the layer that produces them:
//
//   - Storage errors: vault record I/O and integrity (ErrFileNotFound, ErrDecipher)
//   - Plugin errors: loading and invoking native plugins (ErrPluginLoad, ErrSymbolNotFound)
//   - Session errors: login state and user accounts (ErrNotLoggedIn, ErrUserNotFound)
//
// # Structured Errors
//
// Storage operations return *EntryError and plugin operations return
// *PluginError. Both carry the path or plugin they concern and unwrap to one
// of the sentinels:
//
//	_, err := v.Read("mail/work.passy")
//	if errors.Is(err, kerrors.ErrDecipher) {
//	    // wrong key or tampered record
//	}
//
// # Rendering
//
// Callers outside the core (the CLI, the plugin response envelope) only see
// text. Render turns any error into that text; the structured kind is lost.
package errors
