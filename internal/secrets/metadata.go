package secrets

import (
	"fmt"
	"strings"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// EncodeMetadata renders attrs as "key:value" lines joined by newlines.
// Line order follows map iteration and is not stable.
func EncodeMetadata(attrs map[string]string) string {
	lines := make([]string, 0, len(attrs))
	for k, v := range attrs {
		lines = append(lines, k+":"+v)
	}
	return strings.Join(lines, "\n")
}

// DecodeMetadata parses text produced by EncodeMetadata. Each line is split
// at its first colon; the value is trimmed of surrounding whitespace. Empty
// text decodes to an empty map.
//
// A key that itself contains a colon cannot round-trip: the part after its
// first colon ends up in the value. ValidateAttributes keeps such keys out
// of the vault.
func DecodeMetadata(text string) (map[string]string, error) {
	attrs := make(map[string]string)
	if text == "" {
		return attrs, nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d has no ':' separator", kerrors.ErrMalformedMetadata, i+1)
		}
		attrs[key] = strings.TrimSpace(value)
	}

	return attrs, nil
}

// ValidateAttributes reports the first attribute that the line format
// cannot store faithfully.
func ValidateAttributes(attrs map[string]string) error {
	for k, v := range attrs {
		if strings.ContainsAny(k, ":\r\n") {
			return fmt.Errorf("%w: key %q may not contain ':' or line breaks", kerrors.ErrInvalidAttribute, k)
		}
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: value of %q may not contain line breaks", kerrors.ErrInvalidAttribute, k)
		}
		if strings.TrimSpace(v) != v {
			return fmt.Errorf("%w: value of %q has surrounding whitespace that would be lost", kerrors.ErrInvalidAttribute, k)
		}
	}
	return nil
}
