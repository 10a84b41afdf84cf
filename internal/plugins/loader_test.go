package plugins

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "github.com/passyvault/passy/internal/errors"
)

func writePlugin(t *testing.T, root, id, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadAll_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "plugins")
	l := &Loader{Root: root, Open: newFakeOpener().Open}

	reg, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %v", reg.IDs())
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("root not created: %v", err)
	}
}

func TestLoadAll_LoadsPlugins(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()

	dirA := writePlugin(t, root, "alpha", `{"name":"Alpha","author":"a","back":"alpha.so"}`)
	opener.add(filepath.Join(dirA, "alpha.so"), newFakeLibrary().on("ping", ret("pong")))

	dirB := writePlugin(t, root, "beta", `{"name":"Beta","author":"b"}`)
	opener.add(filepath.Join(dirB, DefaultLibraryName(runtime.GOOS)), newFakeLibrary())

	// Stray files in the root are ignored.
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{Root: root, Open: opener.Open, ResolvePerCall: true}
	reg, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Fatalf("ids = %v", ids)
	}

	p, err := reg.Get("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if p.Dir != dirA || p.Manifest.Name != "Alpha" {
		t.Errorf("unexpected plugin %+v", p)
	}
	if got, err := p.Invoke("ping", "", nil); err != nil || got != "pong" {
		t.Errorf("ping: %q, %v", got, err)
	}
}

func TestLoadAll_RunsOnLoad(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()
	dir := writePlugin(t, root, "hooked", `{"name":"H","author":"a","back":"h.so"}`)
	lib := newFakeLibrary().on(OnLoadCommand, ret("err:ignored"))
	opener.add(filepath.Join(dir, "h.so"), lib)

	l := &Loader{Root: root, Open: opener.Open, ResolvePerCall: true}
	if _, err := l.LoadAll(); err != nil {
		t.Fatalf("on_load failure must be discarded, got %v", err)
	}

	if len(lib.calls) != 1 {
		t.Fatalf("expected one on_load call, got %v", lib.calls)
	}
	call := lib.calls[0]
	if call.Data != `"hooked"` {
		t.Errorf("on_load data = %q", call.Data)
	}
	want, _ := encodeStates([]string{dir})
	if call.States != want {
		t.Errorf("on_load states = %q, want %q", call.States, want)
	}
}

func TestLoadAll_MissingOnLoadIsFine(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()
	dir := writePlugin(t, root, "plain", `{"name":"P","author":"a","back":"p.so"}`)
	opener.add(filepath.Join(dir, "p.so"), newFakeLibrary())

	l := &Loader{Root: root, Open: opener.Open}
	if _, err := l.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
}

func TestLoadAll_AbortsOnFirstFailure(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()
	dir := writePlugin(t, root, "good", `{"name":"G","author":"a","back":"g.so"}`)
	opener.add(filepath.Join(dir, "g.so"), newFakeLibrary())
	writePlugin(t, root, "broken", `{"name":`)

	l := &Loader{Root: root, Open: opener.Open}
	reg, err := l.LoadAll()
	if reg != nil {
		t.Errorf("expected no registry on failure")
	}
	if !errors.Is(err, kerrors.ErrPluginLoad) {
		t.Fatalf("expected ErrPluginLoad, got %v", err)
	}
	var pe *kerrors.PluginError
	if !errors.As(err, &pe) || pe.Plugin != "broken" {
		t.Errorf("error not attributed to broken plugin: %v", err)
	}
}

func TestLoadAll_AbortClosesLoadedLibraries(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()
	dir := writePlugin(t, root, "alpha", `{"name":"A","author":"a","back":"a.so"}`)
	lib := newFakeLibrary().on(OnLoadCommand, ret("ok"))
	opener.add(filepath.Join(dir, "a.so"), lib)
	writePlugin(t, root, "zeta", `{"name":`)

	l := &Loader{Root: root, Open: opener.Open}
	if _, err := l.LoadAll(); !errors.Is(err, kerrors.ErrPluginLoad) {
		t.Fatalf("expected ErrPluginLoad, got %v", err)
	}
	if !lib.closed {
		t.Error("library loaded before the failure was left open")
	}
	if lib.callCount(SymbolName(OnLoadCommand)) != 1 {
		t.Error("on_load should have run before the pass aborted")
	}
}

func TestLoadAll_SkipBroken(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()
	dir := writePlugin(t, root, "good", `{"name":"G","author":"a","back":"g.so"}`)
	opener.add(filepath.Join(dir, "g.so"), newFakeLibrary())
	writePlugin(t, root, "nomanifest", "")
	writePlugin(t, root, "nolib", `{"name":"N","author":"a","back":"missing.so"}`)

	l := &Loader{Root: root, Open: opener.Open, SkipBroken: true}
	reg, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if ids := reg.IDs(); len(ids) != 1 || ids[0] != "good" {
		t.Errorf("ids = %v", ids)
	}
	for _, id := range []string{"nomanifest", "nolib"} {
		if !errors.Is(reg.Failures[id], kerrors.ErrPluginLoad) {
			t.Errorf("failure for %s = %v", id, reg.Failures[id])
		}
	}
}

func TestLoad_DeclaredCommandMissing(t *testing.T) {
	root := t.TempDir()
	opener := newFakeOpener()
	dir := writePlugin(t, root, "eager", `{"name":"E","author":"a","back":"e.so","commands":["list","sync"]}`)
	lib := newFakeLibrary().on("list", ret("[]"))
	opener.add(filepath.Join(dir, "e.so"), lib)

	l := &Loader{Root: root, Open: opener.Open}
	_, err := l.Load("eager")
	if !errors.Is(err, kerrors.ErrPluginLoad) {
		t.Fatalf("expected ErrPluginLoad, got %v", err)
	}
	var pe *kerrors.PluginError
	errors.As(err, &pe)
	if pe.Reason != "declared command sync is not exported" {
		t.Errorf("reason = %q", pe.Reason)
	}
	if !lib.closed {
		t.Error("library should be closed after a failed load")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, err := NewRegistry().Get("ghost")
	if !errors.Is(err, kerrors.ErrPluginNotFound) {
		t.Fatalf("expected ErrPluginNotFound, got %v", err)
	}

	var nilReg *Registry
	if _, err := nilReg.Get("ghost"); !errors.Is(err, kerrors.ErrPluginNotFound) {
		t.Errorf("nil registry: %v", err)
	}
}
