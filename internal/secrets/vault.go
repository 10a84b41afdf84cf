package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// RecordExt is the reserved suffix of every record file.
const RecordExt = ".passy"

// Entry is one named secret and its attributes.
type Entry struct {
	Path       string            `json:"path"`
	Attributes map[string]string `json:"data"`
}

// Vault reads and writes the encrypted entries under one user's root
// directory. A Vault holds no locks: concurrent writers to the same entry
// race and the last write wins.
type Vault struct {
	Root  string
	Key   []byte
	Suite Suite
}

// New returns a vault rooted at root using key and suite.
func New(root string, key []byte, suite Suite) *Vault {
	return &Vault{Root: root, Key: key, Suite: suite}
}

// ValidateEntryPath checks that p is a clean, relative, slash-delimited
// entry path that stays inside the vault and does not use the record suffix.
func ValidateEntryPath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: path is empty", kerrors.ErrInvalidEntryPath)
	case strings.Contains(p, RecordExt):
		return fmt.Errorf("%w: %q contains the reserved suffix %s", kerrors.ErrInvalidEntryPath, p, RecordExt)
	case strings.ContainsAny(p, "\x00\\"):
		return fmt.Errorf("%w: %q contains a NUL byte or backslash", kerrors.ErrInvalidEntryPath, p)
	case path.IsAbs(p) || filepath.IsAbs(p):
		return fmt.Errorf("%w: %q is absolute", kerrors.ErrInvalidEntryPath, p)
	}

	clean := path.Clean(p)
	if clean != p || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q is not a clean path inside the vault", kerrors.ErrInvalidEntryPath, p)
	}
	return nil
}

// RecordFile returns the file that stores the entry at entryPath.
func (v *Vault) RecordFile(entryPath string) (string, error) {
	if err := ValidateEntryPath(entryPath); err != nil {
		return "", err
	}
	return filepath.Join(v.Root, filepath.FromSlash(entryPath)+RecordExt), nil
}

// Write encrypts entry and replaces its record file, creating parent
// directories as needed. A fresh nonce is generated on every call.
func (v *Vault) Write(entry Entry) error {
	file, err := v.RecordFile(entry.Path)
	if err != nil {
		return &kerrors.EntryError{Op: "write", Path: entry.Path, Err: err}
	}
	if err := ValidateAttributes(entry.Attributes); err != nil {
		return &kerrors.EntryError{Op: "write", Path: file, Err: err}
	}

	ciphertext, nonce, err := v.Suite.Encrypt(v.Key, []byte(EncodeMetadata(entry.Attributes)))
	if err != nil {
		if !errors.Is(err, kerrors.ErrInvalidKeyLength) && !errors.Is(err, kerrors.ErrCipher) {
			err = fmt.Errorf("%w: %v", kerrors.ErrCipher, err)
		}
		return &kerrors.EntryError{Op: "write", Path: file, Err: err}
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return &kerrors.EntryError{Op: "mkdir", Path: dir, Err: fmt.Errorf("%w: %v", kerrors.ErrCreateDir, err)}
	}

	record := make([]byte, 0, len(nonce)+len(ciphertext))
	record = append(record, nonce...)
	record = append(record, ciphertext...)

	if err := os.WriteFile(file, record, 0600); err != nil {
		return &kerrors.EntryError{Op: "write", Path: file, Err: fmt.Errorf("%w: %v", kerrors.ErrWritePermission, err)}
	}
	return nil
}

// Create writes a new entry with no attributes.
func (v *Vault) Create(entryPath string) (Entry, error) {
	entry := Entry{Path: entryPath, Attributes: map[string]string{}}
	if err := v.Write(entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Read decrypts the record at relativeFile, a path relative to the vault
// root that includes the record suffix (for example "work/github.passy").
func (v *Vault) Read(relativeFile string) (Entry, error) {
	file := filepath.Join(v.Root, filepath.FromSlash(relativeFile))

	content, err := os.ReadFile(file)
	if err != nil {
		kind := kerrors.ErrReadFile
		if errors.Is(err, fs.ErrNotExist) {
			kind = kerrors.ErrFileNotFound
		}
		return Entry{}, &kerrors.EntryError{Op: "read", Path: file, Err: fmt.Errorf("%w: %v", kind, err)}
	}

	if len(content) < NonceSize {
		return Entry{}, &kerrors.EntryError{Op: "read", Path: file, Err: fmt.Errorf("%w: record is %d bytes, shorter than its nonce", kerrors.ErrMalformedMetadata, len(content))}
	}

	plaintext, err := v.Suite.Decrypt(v.Key, content[:NonceSize], content[NonceSize:])
	if err != nil {
		return Entry{}, &kerrors.EntryError{Op: "read", Path: file, Err: err}
	}

	if !utf8.Valid(plaintext) {
		return Entry{}, &kerrors.EntryError{Op: "read", Path: file, Err: fmt.Errorf("%w: content is not valid UTF-8", kerrors.ErrMalformedMetadata)}
	}

	attrs, err := DecodeMetadata(string(plaintext))
	if err != nil {
		return Entry{}, &kerrors.EntryError{Op: "read", Path: file, Err: err}
	}

	return Entry{Path: v.entryPath(file), Attributes: attrs}, nil
}

// ReadEntry reads the entry stored for a logical entry path.
func (v *Vault) ReadEntry(entryPath string) (Entry, error) {
	if err := ValidateEntryPath(entryPath); err != nil {
		return Entry{}, &kerrors.EntryError{Op: "read", Path: entryPath, Err: err}
	}
	return v.Read(entryPath + RecordExt)
}

// entryPath strips the vault root and record suffix from a record file path.
func (v *Vault) entryPath(file string) string {
	rel, err := filepath.Rel(v.Root, file)
	if err != nil {
		rel = strings.TrimPrefix(file, v.Root)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), RecordExt)
}

// Enumerate reads every record in the vault, sorted by path. The first
// record that fails to read aborts the walk: the result is complete or
// there is none.
func (v *Vault) Enumerate() ([]Entry, error) {
	files, err := FindRecordFiles(v.Root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(v.Root, file)
		if err != nil {
			return nil, &kerrors.EntryError{Op: "read", Path: file, Err: fmt.Errorf("%w: %v", kerrors.ErrFileNotFound, err)}
		}
		entry, err := v.Read(rel)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Delete removes the record file for entryPath. Parent directories are
// left in place even when they become empty.
func (v *Vault) Delete(entryPath string) error {
	file, err := v.RecordFile(entryPath)
	if err != nil {
		return &kerrors.EntryError{Op: "delete", Path: entryPath, Err: err}
	}

	if err := os.Remove(file); err != nil {
		return &kerrors.EntryError{Op: "delete", Path: file, Err: fmt.Errorf("%w: %v", kerrors.ErrDeletionFailed, err)}
	}
	return nil
}
