//go:build darwin || linux

package plugins

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	kerrors "github.com/passyvault/passy/internal/errors"
	"golang.org/x/sys/unix"
)

// nativeLibrary is a dlopen'ed shared object.
type nativeLibrary struct {
	handle uintptr
	free   func(ptr uintptr)
}

// OpenLibrary dlopens path and binds its passy_free export.
func OpenLibrary(path string) (Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("failed to import lib %s: %v", path, err)
	}

	freeSym, err := purego.Dlsym(handle, FreeSymbol)
	if err != nil {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("library %s does not export %s: %v", path, FreeSymbol, err)
	}

	lib := &nativeLibrary{handle: handle}
	purego.RegisterFunc(&lib.free, freeSym)
	return lib, nil
}

func (l *nativeLibrary) Lookup(symbol string) (Export, error) {
	sym, err := purego.Dlsym(l.handle, symbol)
	if err != nil || sym == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSymbolNotFound, symbol)
	}

	export := &nativeExport{lib: l}
	purego.RegisterFunc(&export.fn, sym)
	return export, nil
}

func (l *nativeLibrary) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

type nativeExport struct {
	lib *nativeLibrary
	fn  func(data, states string) uintptr
}

func (e *nativeExport) Call(data, states string) (string, error) {
	ptr := e.fn(data, states)
	if ptr == 0 {
		return "", errNullResult
	}

	result := unix.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
	e.lib.free(ptr)
	return result, nil
}
