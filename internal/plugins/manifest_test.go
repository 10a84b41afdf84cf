package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLibraryName(t *testing.T) {
	tests := map[string]string{
		"windows": "back.dll",
		"darwin":  "libback.dylib",
		"linux":   "libback.so",
		"freebsd": "libback.so",
	}
	for goos, want := range tests {
		if got := DefaultLibraryName(goos); got != want {
			t.Errorf("DefaultLibraryName(%q) = %q, want %q", goos, got, want)
		}
	}
}

func TestReadManifest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"full", `{"name":"N","author":"A","icon":"i.png","back":"lib.so","commands":["go"]}`, ""},
		{"minimal", `{"name":"N","author":"A"}`, ""},
		{"unknown fields ignored", `{"name":"N","author":"A","version":"1"}`, ""},
		{"bad json", `{"name":`, "failed to parse manifest"},
		{"missing name", `{"author":"A"}`, "missing field `name`"},
		{"missing author", `{"name":"N"}`, "missing field `author`"},
		{"escaping back", `{"name":"N","author":"A","back":"../evil.so"}`, "inside the plugin directory"},
		{"bad command", `{"name":"N","author":"A","commands":["has space"]}`, "invalid command name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := ReadManifest(dir)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "failed to read manifest file") {
		t.Errorf("error = %v", err)
	}
}

func TestManifest_LibraryName(t *testing.T) {
	if got := (Manifest{Back: "custom.so"}).LibraryName(); got != "custom.so" {
		t.Errorf("got %q", got)
	}
	if got := (Manifest{}).LibraryName(); got == "" {
		t.Error("expected platform default")
	}
}
