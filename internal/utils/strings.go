package utils

import (
	"regexp"
	"strings"

	"github.com/passyvault/passy/internal/ui"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// FormatPaths formats a slice of paths into a readable list.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, p := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(p))
		b.WriteString("\n")
	}
	return b.String()
}

// IsValidUsername checks that name can be used as a user directory: it
// starts with a letter or digit and contains only letters, digits, dots,
// hyphens and underscores.
func IsValidUsername(name string) bool {
	if len(name) > 64 {
		return false
	}
	return usernamePattern.MatchString(name)
}
