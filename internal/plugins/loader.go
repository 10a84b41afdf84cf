package plugins

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	kerrors "github.com/passyvault/passy/internal/errors"
	logger "github.com/passyvault/passy/internal/logging"
)

// Loader builds a Registry from a plugins directory.
type Loader struct {
	Root string
	Open Opener

	// SkipBroken records a failing plugin in Registry.Failures and keeps
	// going instead of aborting the pass.
	SkipBroken bool

	// ResolvePerCall looks command symbols up on every invocation instead of
	// using the table built at load time.
	ResolvePerCall bool

	Logger logger.Logger
}

// Registry maps plugin ids to loaded plugins.
type Registry struct {
	Plugins  map[string]*Plugin
	Failures map[string]error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Plugins:  make(map[string]*Plugin),
		Failures: make(map[string]error),
	}
}

// Get returns the plugin with the given id.
func (r *Registry) Get(id string) (*Plugin, error) {
	if r != nil {
		if p, ok := r.Plugins[id]; ok {
			return p, nil
		}
	}
	return nil, &kerrors.PluginError{Plugin: id, Err: kerrors.ErrPluginNotFound}
}

// IDs returns the loaded plugin ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Plugins))
	for id := range r.Plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of loaded plugins.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Plugins)
}

// LoadAll loads every plugin directory under l.Root.
//
// A missing root is created and yields an empty registry. Without
// SkipBroken the first plugin that fails to load aborts the pass: the
// libraries loaded before it are closed again, but their on_load hooks
// have already run.
func (l *Loader) LoadAll() (*Registry, error) {
	reg := NewRegistry()

	entries, err := os.ReadDir(l.Root)
	if errors.Is(err, fs.ErrNotExist) {
		l.Logger.Debugf("Plugins directory %s does not exist, creating it", l.Root)
		if err := os.MkdirAll(l.Root, 0755); err != nil {
			return nil, &kerrors.EntryError{Op: "mkdir", Path: l.Root, Err: fmt.Errorf("%w: %v", kerrors.ErrCreateDir, err)}
		}
		return reg, nil
	}
	if err != nil {
		return nil, &kerrors.EntryError{Op: "readdir", Path: l.Root, Err: fmt.Errorf("%w: %v", kerrors.ErrReadDir, err)}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		p, err := l.Load(id)
		if err != nil {
			if !l.SkipBroken {
				reg.closeAll(l.Logger)
				return nil, err
			}
			l.Logger.Warnf("Skipping plugin %s: %v", id, err)
			reg.Failures[id] = err
			continue
		}
		reg.Plugins[id] = p
	}

	l.Logger.Infof("Loaded %d plugin(s) from %s", len(reg.Plugins), l.Root)
	return reg, nil
}

// closeAll closes every loaded library. Plugins must not be used afterwards.
func (r *Registry) closeAll(log logger.Logger) {
	for id, p := range r.Plugins {
		if err := p.lib.Close(); err != nil {
			log.Debugf("Closing plugin %s: %v", id, err)
		}
	}
}

// Load loads the plugin in l.Root/id and runs its on_load hook.
func (l *Loader) Load(id string) (*Plugin, error) {
	dir := filepath.Join(l.Root, id)
	fail := func(reason string) error {
		return &kerrors.PluginError{Plugin: id, Reason: reason, Err: kerrors.ErrPluginLoad}
	}

	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, fail(err.Error())
	}

	open := l.Open
	if open == nil {
		open = OpenLibrary
	}

	libPath := filepath.Join(dir, manifest.LibraryName())
	lib, err := open(libPath)
	if err != nil {
		return nil, fail(err.Error())
	}

	exports := make(map[string]Export, len(manifest.Commands))
	for _, cmd := range manifest.Commands {
		e, err := lib.Lookup(SymbolName(cmd))
		if err != nil {
			_ = lib.Close()
			return nil, fail(fmt.Sprintf("declared command %s is not exported", cmd))
		}
		exports[cmd] = e
	}

	p := &Plugin{
		ID:             id,
		Dir:            dir,
		Manifest:       manifest,
		lib:            lib,
		exports:        exports,
		resolvePerCall: l.ResolvePerCall,
		log:            l.Logger,
	}
	l.Logger.Debugf("Loaded plugin %s (%s) from %s", id, manifest.Name, libPath)

	l.runOnLoad(p)
	return p, nil
}

// runOnLoad calls the plugin's on_load hook. Its result is discarded.
func (l *Loader) runOnLoad(p *Plugin) {
	data, _ := json.Marshal(p.ID)
	if _, err := p.Invoke(OnLoadCommand, string(data), []string{p.Dir}); err != nil {
		l.Logger.Debugf("on_load for plugin %s: %v", p.ID, err)
	}
}
