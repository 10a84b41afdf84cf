package session

import (
	"sync"

	"github.com/passyvault/passy/internal/audit"
	"github.com/passyvault/passy/internal/configs"
	kerrors "github.com/passyvault/passy/internal/errors"
	logger "github.com/passyvault/passy/internal/logging"
	"github.com/passyvault/passy/internal/plugins"
	"github.com/passyvault/passy/internal/secrets"
)

// Session is a logged-in user.
type Session struct {
	User string
	Root string

	key []byte
}

// Host is the process-wide context.
type Host struct {
	Settings *configs.Settings
	Config   *configs.Config
	Logger   logger.Logger

	// Opener opens plugin libraries. Nil uses plugins.OpenLibrary.
	Opener plugins.Opener

	// Trail records operations. Nil disables auditing.
	Trail *audit.Trail

	sessionMu sync.RWMutex
	current   *Session

	registryMu sync.RWMutex
	registry   *plugins.Registry
}

// NewHost returns a host with no user logged in and no plugins loaded.
func NewHost(settings *configs.Settings, config *configs.Config, log logger.Logger) *Host {
	if config == nil {
		config = configs.Default()
	}
	return &Host{
		Settings: settings,
		Config:   config,
		Logger:   log,
		Trail:    audit.NewTrail(settings.AuditPath),
	}
}

// Current returns the logged-in session without its key.
func (h *Host) Current() (Session, error) {
	h.sessionMu.RLock()
	defer h.sessionMu.RUnlock()

	if h.current == nil {
		return Session{}, kerrors.ErrNotLoggedIn
	}
	s := *h.current
	s.key = nil
	return s, nil
}

// vault returns a vault for the logged-in user. The vault holds its own
// copy of the key, so a concurrent Logout or Login cannot change the key
// under a running operation. Callers release it with secrets.Zero(v.Key).
func (h *Host) vault() (*secrets.Vault, string, error) {
	h.sessionMu.RLock()
	defer h.sessionMu.RUnlock()

	if h.current == nil {
		return nil, "", kerrors.ErrNotLoggedIn
	}
	s := h.current
	return secrets.New(s.Root, append([]byte(nil), s.key...), h.Config.Suite()), s.User, nil
}

// currentUser returns the logged-in user name, or "" when logged out.
func (h *Host) currentUser() string {
	h.sessionMu.RLock()
	defer h.sessionMu.RUnlock()
	if h.current == nil {
		return ""
	}
	return h.current.User
}
