package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/passyvault/passy/internal/audit"
	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/plugins"
	"github.com/passyvault/passy/internal/secrets"
)

// AccountData is everything a client needs after opening a vault.
type AccountData struct {
	Plugins     map[string]plugins.ResolvedManifest `json:"plugins"`
	AppdataPath string                              `json:"appdata_path"`
	Passwords   []secrets.Entry                     `json:"passwords"`
}

// CreateEntry writes a new entry with no attributes.
func (h *Host) CreateEntry(entryPath string) (entry secrets.Entry, err error) {
	v, user, err := h.vault()
	if err != nil {
		return secrets.Entry{}, err
	}
	defer secrets.Zero(v.Key)
	defer func() {
		h.Trail.Log(audit.Entry{User: user, Operation: audit.OpCreate, Path: entryPath}.Result(err))
	}()

	return v.Create(entryPath)
}

// UpdateEntry replaces the stored attributes of entry.Path.
func (h *Host) UpdateEntry(entry secrets.Entry) (err error) {
	v, user, err := h.vault()
	if err != nil {
		return err
	}
	defer secrets.Zero(v.Key)
	defer func() {
		h.Trail.Log(audit.Entry{User: user, Operation: audit.OpUpdate, Path: entry.Path}.Result(err))
	}()

	return v.Write(entry)
}

// DeleteEntry removes the record of entryPath.
func (h *Host) DeleteEntry(entryPath string) (err error) {
	v, user, err := h.vault()
	if err != nil {
		return err
	}
	defer secrets.Zero(v.Key)
	defer func() {
		h.Trail.Log(audit.Entry{User: user, Operation: audit.OpDelete, Path: entryPath}.Result(err))
	}()

	return v.Delete(entryPath)
}

// ReadEntry decrypts a single entry.
func (h *Host) ReadEntry(entryPath string) (secrets.Entry, error) {
	v, _, err := h.vault()
	if err != nil {
		return secrets.Entry{}, err
	}
	defer secrets.Zero(v.Key)
	return v.ReadEntry(entryPath)
}

// Entries decrypts every entry of the current user.
func (h *Host) Entries() ([]secrets.Entry, error) {
	v, _, err := h.vault()
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(v.Key)
	return v.Enumerate()
}

// OpenVault enumerates the user's vault, reloads plugins and resolves
// their manifests.
func (h *Host) OpenVault() (data AccountData, err error) {
	v, user, err := h.vault()
	if err != nil {
		return AccountData{}, err
	}
	defer secrets.Zero(v.Key)

	var count int
	defer func() {
		h.Trail.Log(audit.Entry{User: user, Operation: audit.OpOpen, Count: count}.Result(err))
	}()

	if _, err := os.Stat(v.Root); errors.Is(err, fs.ErrNotExist) {
		return AccountData{}, fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, user)
	}

	entries, err := v.Enumerate()
	if err != nil {
		return AccountData{}, err
	}
	count = len(entries)

	reg, err := h.ReloadPlugins()
	if err != nil {
		return AccountData{}, err
	}

	return AccountData{
		Plugins:     reg.Manifests(),
		AppdataPath: v.Root,
		Passwords:   entries,
	}, nil
}
