package secrets

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	kerrors "github.com/passyvault/passy/internal/errors"
)

// FindRecordFiles walks root and returns every regular file ending in
// RecordExt. Directories are always descended; other files are ignored.
func FindRecordFiles(root string) ([]string, error) {
	var result []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &kerrors.EntryError{Op: "readdir", Path: path, Err: fmt.Errorf("%w: %v", kerrors.ErrReadDir, err)}
		}

		if d.IsDir() {
			return nil
		}

		// Skip irregular files such as sockets, pipes, devices, etc
		if !d.Type().IsRegular() {
			return nil
		}

		if strings.HasSuffix(d.Name(), RecordExt) {
			result = append(result, path)
		}
		return nil
	})

	return result, err
}

// Filter returns the entries whose path matches at least one of patterns.
// Patterns use doublestar syntax, so "work/**" selects everything under
// work/. With no patterns every entry is returned.
func Filter(entries []Entry, patterns []string) ([]Entry, error) {
	if len(patterns) == 0 {
		return entries, nil
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidPattern, pattern)
		}
	}

	var matched []Entry
	for _, entry := range entries {
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, entry.Path)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", kerrors.ErrInvalidPattern, pattern, err)
			}
			if ok {
				matched = append(matched, entry)
				break
			}
		}
	}

	return matched, nil
}
