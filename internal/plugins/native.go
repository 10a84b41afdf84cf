package plugins

import (
	"errors"
	"strings"
)

const (
	// ExportSuffix is appended to a command name to form its symbol.
	ExportSuffix = "_external"

	// FreeSymbol releases strings returned by a plugin's exports.
	FreeSymbol = "passy_free"

	// ErrorMarker prefixes a plugin result that reports a failure.
	ErrorMarker = "err:"
)

// errNullResult is returned by Export.Call when the plugin returned NULL.
var errNullResult = errors.New("null result")

// Library is a loaded native library. Implementations own the OS handle.
type Library interface {
	// Lookup resolves an exported symbol. A missing symbol yields an error
	// wrapping ErrSymbolNotFound.
	Lookup(symbol string) (Export, error)
	Close() error
}

// Export is a resolved "const char *f(const char *, const char *)" symbol.
type Export interface {
	// Call passes data and states as NUL-terminated strings, copies the
	// returned string and releases it through the library's passy_free.
	Call(data, states string) (string, error)
}

// Opener opens the native library at path.
type Opener func(path string) (Library, error)

// SymbolName returns the exported symbol name for command.
func SymbolName(command string) string {
	return command + ExportSuffix
}

func validCommand(command string) bool {
	return command != "" && !strings.ContainsAny(command, "\x00 \t\r\n")
}
