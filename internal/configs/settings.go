package configs

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// AppdataEnv overrides the default appdata directory.
const AppdataEnv = "PASSY_HOME"

const (
	pluginsDirName = "plugins"
	configFileName = "config.toml"
	auditFileName  = "audit.jsonl"
)

// Settings holds the resolved locations passy reads and writes.
type Settings struct {
	AppdataPath string
	PluginsPath string
	ConfigPath  string
	AuditPath   string
}

// NewSettings lays out the standard paths under appdata.
func NewSettings(appdata string) *Settings {
	return &Settings{
		AppdataPath: appdata,
		PluginsPath: filepath.Join(appdata, pluginsDirName),
		ConfigPath:  filepath.Join(appdata, configFileName),
		AuditPath:   filepath.Join(appdata, auditFileName),
	}
}

// ResolveSettings picks the appdata directory (override, then $PASSY_HOME,
// then the OS config directory) and creates it if it does not exist yet.
func ResolveSettings(override string) (*Settings, error) {
	appdata := override
	if appdata == "" {
		appdata = os.Getenv(AppdataEnv)
	}
	if appdata == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrNoAppdataDir, err)
		}
		appdata = filepath.Join(configDir, "passy")
	}

	appdata, err := filepath.Abs(appdata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrNoAppdataDir, err)
	}

	if err := os.MkdirAll(appdata, 0700); err != nil {
		return nil, &kerrors.EntryError{Op: "mkdir", Path: appdata, Err: fmt.Errorf("%w: %v", kerrors.ErrCreateDir, err)}
	}

	return NewSettings(appdata), nil
}

// UserPath returns the vault root of the named user.
func (s *Settings) UserPath(username string) string {
	return filepath.Join(s.AppdataPath, username)
}

// IsReserved reports whether name is used by passy itself and therefore
// cannot be a user directory.
func IsReserved(name string) bool {
	return name == pluginsDirName || name == configFileName || name == auditFileName
}
