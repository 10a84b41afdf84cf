package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/passyvault/passy/internal/secrets"
)

type Config struct {
	Vault   VaultConfig   `toml:"vault" json:"vault"`
	Plugins PluginsConfig `toml:"plugins" json:"plugins"`
}

type VaultConfig struct {
	Cipher string `toml:"cipher" json:"cipher"`
}

type PluginsConfig struct {
	// Dir overrides <appdata>/plugins.
	Dir            string `toml:"dir,omitempty" json:"dir,omitempty"`
	SkipBroken     bool   `toml:"skip_broken" json:"skip_broken"`
	ResolvePerCall bool   `toml:"resolve_per_call" json:"resolve_per_call"`
}

// Keys lists the settable configuration keys.
var Keys = []string{"vault.cipher", "plugins.dir", "plugins.skip_broken", "plugins.resolve_per_call"}

// Default returns the configuration used when config.toml is absent.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{Cipher: string(secrets.DefaultSuite)},
		Plugins: PluginsConfig{
			SkipBroken:     false,
			ResolvePerCall: true,
		},
	}
}

// LoadConfig reads config.toml from settings, falling back to Default for
// a missing file or missing keys. Unknown keys are returned so the caller
// can warn about them.
func LoadConfig(settings *Settings) (*Config, []string, error) {
	config := Default()

	if _, err := os.Stat(settings.ConfigPath); os.IsNotExist(err) {
		return config, nil, nil
	}

	unknown, err := LoadTOML(settings.ConfigPath, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	return config, unknown, nil
}

// SaveConfig writes config to settings.ConfigPath.
func SaveConfig(settings *Settings, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(settings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks values that cannot be fixed by falling back to defaults.
func (c *Config) Validate() error {
	if _, err := secrets.ParseSuite(c.Vault.Cipher); err != nil {
		return fmt.Errorf("invalid [vault] cipher: %w", err)
	}
	return nil
}

// Set assigns value to a dotted key such as "plugins.skip_broken".
func (c *Config) Set(key, value string) error {
	switch key {
	case "vault.cipher":
		suite, err := secrets.ParseSuite(value)
		if err != nil {
			return err
		}
		c.Vault.Cipher = string(suite)
	case "plugins.dir":
		c.Plugins.Dir = value
	case "plugins.skip_broken":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		c.Plugins.SkipBroken = b
	case "plugins.resolve_per_call":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		c.Plugins.ResolvePerCall = b
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// PluginsPath returns the plugins directory, honoring [plugins] dir.
func (c *Config) PluginsPath(settings *Settings) string {
	if c.Plugins.Dir != "" {
		return c.Plugins.Dir
	}
	return settings.PluginsPath
}

// Suite returns the configured cipher suite.
func (c *Config) Suite() secrets.Suite {
	suite, err := secrets.ParseSuite(c.Vault.Cipher)
	if err != nil {
		return secrets.DefaultSuite
	}
	return suite
}
