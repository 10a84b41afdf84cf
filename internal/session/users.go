package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/passyvault/passy/internal/audit"
	"github.com/passyvault/passy/internal/configs"
	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/secrets"
	"github.com/passyvault/passy/internal/utils"
)

// User is a directory under the appdata root.
type User struct {
	Name string `json:"name"`
}

// Users lists the users with a vault directory, sorted by name.
func (h *Host) Users() ([]User, error) {
	entries, err := os.ReadDir(h.Settings.AppdataPath)
	if err != nil {
		return nil, &kerrors.EntryError{Op: "readdir", Path: h.Settings.AppdataPath, Err: fmt.Errorf("%w: %v", kerrors.ErrReadDir, err)}
	}

	var users []User
	for _, e := range entries {
		if !e.IsDir() || configs.IsReserved(e.Name()) || !utils.IsValidUsername(e.Name()) {
			continue
		}
		users = append(users, User{Name: e.Name()})
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// CreateUser creates an empty vault directory for name.
func (h *Host) CreateUser(name string) (err error) {
	defer func() {
		h.Trail.Log(audit.Entry{User: name, Operation: audit.OpAddUser}.Result(err))
	}()

	if !utils.IsValidUsername(name) || configs.IsReserved(name) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidUsername, name)
	}

	root := h.Settings.UserPath(name)
	if _, err := os.Stat(root); err == nil {
		return fmt.Errorf("%w: %s", kerrors.ErrUserAlreadyExists, name)
	}

	if err := os.Mkdir(root, 0700); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", kerrors.ErrUserAlreadyExists, name)
		}
		return &kerrors.EntryError{Op: "mkdir", Path: root, Err: fmt.Errorf("%w: %v", kerrors.ErrCreateDir, err)}
	}

	h.Logger.Infof("Created user %s at %s", name, root)
	return nil
}

// Login makes name the current user. The key is copied; the caller may
// zero its own slice afterwards. Any previous session is logged out.
func (h *Host) Login(name string, key []byte) (err error) {
	defer func() {
		h.Trail.Log(audit.Entry{User: name, Operation: audit.OpLogin}.Result(err))
	}()

	if len(key) != secrets.KeySize {
		return fmt.Errorf("%w: got %d bytes", kerrors.ErrInvalidKeyLength, len(key))
	}

	root := h.Settings.UserPath(name)
	if !utils.IsValidUsername(name) || configs.IsReserved(name) {
		return fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, name)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, name)
	}

	s := &Session{User: name, Root: root, key: append([]byte(nil), key...)}

	h.sessionMu.Lock()
	prev := h.current
	h.current = s
	h.sessionMu.Unlock()

	if prev != nil {
		secrets.Zero(prev.key)
	}

	h.Logger.Debugf("Logged in as %s", name)
	return nil
}

// Logout ends the current session and overwrites its key copy.
func (h *Host) Logout() {
	h.sessionMu.Lock()
	prev := h.current
	h.current = nil
	h.sessionMu.Unlock()

	if prev == nil {
		return
	}
	secrets.Zero(prev.key)
	h.Trail.Log(audit.Entry{User: prev.User, Operation: audit.OpLogout, OK: true})
	h.Logger.Debugf("Logged out %s", prev.User)
}
