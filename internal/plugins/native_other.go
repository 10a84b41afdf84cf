//go:build !darwin && !linux && !windows

package plugins

import (
	"fmt"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// OpenLibrary always fails: there is no dynamic loader binding for this OS.
func OpenLibrary(path string) (Library, error) {
	return nil, fmt.Errorf("%w: %s", kerrors.ErrUnsupportedPlatform, path)
}
