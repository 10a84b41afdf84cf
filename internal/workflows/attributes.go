package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/secrets"
	"github.com/passyvault/passy/internal/session"
)

// SetOptions configures the SetAttributes workflow.
type SetOptions struct {
	Path string

	// Assignments are "key=value" arguments. Only the first '=' splits.
	Assignments []string

	// Unset lists keys to remove.
	Unset []string

	// Replace discards existing attributes instead of merging into them.
	Replace bool
}

// SetResult contains the outcome of a SetAttributes call.
type SetResult struct {
	Entry   secrets.Entry
	Created bool
}

// ParseAssignments splits "key=value" arguments into a map.
func ParseAssignments(args []string) (map[string]string, error) {
	attrs := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q (expected key=value)", kerrors.ErrInvalidAssignment, arg)
		}
		attrs[key] = value
	}
	return attrs, nil
}

// SetAttributes merges the assignments into an entry and writes it back.
// A missing entry is created.
func SetAttributes(ctx context.Context, host *session.Host, opts SetOptions) (*SetResult, error) {
	updates, err := ParseAssignments(opts.Assignments)
	if err != nil {
		return nil, err
	}

	entry, err := host.ReadEntry(opts.Path)
	created := false
	switch {
	case errors.Is(err, kerrors.ErrFileNotFound):
		entry = secrets.Entry{Path: opts.Path, Attributes: map[string]string{}}
		created = true
	case err != nil:
		return nil, err
	}

	if opts.Replace || entry.Attributes == nil {
		entry.Attributes = make(map[string]string, len(updates))
	}
	for k, v := range updates {
		entry.Attributes[k] = v
	}
	for _, k := range opts.Unset {
		delete(entry.Attributes, k)
	}

	if err := host.UpdateEntry(entry); err != nil {
		return nil, err
	}
	return &SetResult{Entry: entry, Created: created}, nil
}
