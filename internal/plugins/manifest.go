package plugins

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ManifestFile is the name of the manifest inside a plugin directory.
const ManifestFile = "manifest.json"

// Manifest is the plugin-declared metadata read from manifest.json.
type Manifest struct {
	Name   string `json:"name"`
	Author string `json:"author"`

	// Icon is a path relative to the plugin directory.
	Icon string `json:"icon,omitempty"`

	// Back is the native library file name. DefaultLibraryName is used when empty.
	Back string `json:"back,omitempty"`

	// Commands lists exports that must be present when the plugin loads.
	Commands []string `json:"commands,omitempty"`
}

// DefaultLibraryName returns the library file name assumed when a manifest
// does not set "back".
func DefaultLibraryName(goos string) string {
	switch goos {
	case "windows":
		return "back.dll"
	case "darwin":
		return "libback.dylib"
	}
	return "libback.so"
}

// LibraryName returns the file name of the plugin's native library.
func (m Manifest) LibraryName() string {
	if m.Back != "" {
		return m.Back
	}
	return DefaultLibraryName(runtime.GOOS)
}

// ReadManifest reads and validates dir/manifest.json.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest file: %v", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %v", err)
	}

	if err := m.validate(); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %v", err)
	}
	return m, nil
}

func (m Manifest) validate() error {
	switch {
	case m.Name == "":
		return fmt.Errorf("missing field `name`")
	case m.Author == "":
		return fmt.Errorf("missing field `author`")
	case m.Back != "" && !filepath.IsLocal(m.Back):
		return fmt.Errorf("back %q must be a path inside the plugin directory", m.Back)
	}

	for _, cmd := range m.Commands {
		if !validCommand(cmd) {
			return fmt.Errorf("invalid command name %q", cmd)
		}
	}
	return nil
}
