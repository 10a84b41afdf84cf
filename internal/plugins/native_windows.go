//go:build windows

package plugins

import (
	"fmt"
	"unsafe"

	kerrors "github.com/passyvault/passy/internal/errors"
	"golang.org/x/sys/windows"
)

// nativeLibrary is a DLL loaded with LoadLibrary.
type nativeLibrary struct {
	dll  *windows.DLL
	free *windows.Proc
}

// OpenLibrary loads the DLL at path and binds its passy_free export.
func OpenLibrary(path string) (Library, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, fmt.Errorf("failed to import lib %s: %v", path, err)
	}

	free, err := dll.FindProc(FreeSymbol)
	if err != nil {
		_ = dll.Release()
		return nil, fmt.Errorf("library %s does not export %s: %v", path, FreeSymbol, err)
	}

	return &nativeLibrary{dll: dll, free: free}, nil
}

func (l *nativeLibrary) Lookup(symbol string) (Export, error) {
	proc, err := l.dll.FindProc(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSymbolNotFound, symbol)
	}
	return &nativeExport{lib: l, proc: proc}, nil
}

func (l *nativeLibrary) Close() error {
	if l.dll == nil {
		return nil
	}
	err := l.dll.Release()
	l.dll = nil
	return err
}

type nativeExport struct {
	lib  *nativeLibrary
	proc *windows.Proc
}

func (e *nativeExport) Call(data, states string) (string, error) {
	cData, err := windows.BytePtrFromString(data)
	if err != nil {
		return "", fmt.Errorf("%w: data: %v", kerrors.ErrDeserializeData, err)
	}
	cStates, err := windows.BytePtrFromString(states)
	if err != nil {
		return "", fmt.Errorf("%w: states: %v", kerrors.ErrDeserializeData, err)
	}

	ptr, _, _ := e.proc.Call(uintptr(unsafe.Pointer(cData)), uintptr(unsafe.Pointer(cStates)))
	if ptr == 0 {
		return "", errNullResult
	}

	result := windows.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
	_, _, _ = e.lib.free.Call(ptr)
	return result, nil
}
