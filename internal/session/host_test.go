package session

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/passyvault/passy/internal/audit"
	"github.com/passyvault/passy/internal/configs"
	kerrors "github.com/passyvault/passy/internal/errors"
	logger "github.com/passyvault/passy/internal/logging"
	"github.com/passyvault/passy/internal/plugins"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

// stubLibrary is a Library whose commands are Go functions.
type stubLibrary struct {
	funcs map[string]func(data, states string) string
}

func (l *stubLibrary) Lookup(symbol string) (plugins.Export, error) {
	fn, ok := l.funcs[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSymbolNotFound, symbol)
	}
	return stubExport(fn), nil
}

func (l *stubLibrary) Close() error { return nil }

type stubExport func(data, states string) string

func (e stubExport) Call(data, states string) (string, error) { return e(data, states), nil }

// installPlugin writes a manifest for id and registers lib under its path.
func installPlugin(t *testing.T, h *Host, libs map[string]plugins.Library, id, manifest string, lib plugins.Library) {
	t.Helper()
	dir := filepath.Join(h.Config.PluginsPath(h.Settings), id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, plugins.ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	libs[filepath.Join(dir, "lib.so")] = lib
}

type testHost struct {
	*Host
	libs map[string]plugins.Library
	mu   sync.Mutex
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	settings := configs.NewSettings(t.TempDir())
	h := NewHost(settings, configs.Default(), logger.Logger{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}})

	th := &testHost{Host: h, libs: make(map[string]plugins.Library)}
	h.Opener = func(path string) (plugins.Library, error) {
		th.mu.Lock()
		defer th.mu.Unlock()
		lib, ok := th.libs[path]
		if !ok {
			return nil, fmt.Errorf("failed to import lib %s", path)
		}
		return lib, nil
	}
	return th
}

func loggedIn(t *testing.T, name string) *testHost {
	t.Helper()
	h := newTestHost(t)
	if err := h.CreateUser(name); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := h.Login(name, testKey); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return h
}

func auditOps(t *testing.T, h *Host) []audit.Entry {
	t.Helper()
	entries, err := h.Trail.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	return entries
}
