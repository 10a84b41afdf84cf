package plugins

import (
	"fmt"
	"strings"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// checkCString rejects strings that cannot cross the boundary intact: a NUL
// byte would end the C string early.
func checkCString(name, s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return fmt.Errorf("%w: %s contains a NUL byte at offset %d", kerrors.ErrDeserializeData, name, i)
	}
	return nil
}
