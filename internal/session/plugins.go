package session

import (
	"fmt"

	"github.com/passyvault/passy/internal/audit"
	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/plugins"
)

// Loader returns a plugin loader configured from the host.
func (h *Host) Loader() *plugins.Loader {
	return &plugins.Loader{
		Root:           h.Config.PluginsPath(h.Settings),
		Open:           h.Opener,
		SkipBroken:     h.Config.Plugins.SkipBroken,
		ResolvePerCall: h.Config.Plugins.ResolvePerCall,
		Logger:         h.Logger,
	}
}

// ReloadPlugins runs a load pass and replaces the registry. On failure the
// previous registry stays in place.
func (h *Host) ReloadPlugins() (reg *plugins.Registry, err error) {
	defer func() {
		e := audit.Entry{User: h.currentUser(), Operation: audit.OpLoad}
		if reg != nil {
			e.Count = reg.Len()
		}
		h.Trail.Log(e.Result(err))
	}()

	reg, err = h.Loader().LoadAll()
	if err != nil {
		return nil, err
	}

	h.registryMu.Lock()
	h.registry = reg
	h.registryMu.Unlock()

	return reg, nil
}

// Registry returns the registry from the latest load pass, or nil.
func (h *Host) Registry() *plugins.Registry {
	h.registryMu.RLock()
	defer h.registryMu.RUnlock()
	return h.registry
}

// Invoke runs the command named by env and returns the plugin's payload.
func (h *Host) Invoke(env plugins.InvocationEnvelope) (result string, err error) {
	user := h.currentUser()
	defer func() {
		h.Trail.Log(audit.Entry{User: user, Operation: audit.OpInvoke, Plugin: env.Plugin, Command: env.Command}.Result(err))
	}()

	states, err := h.stateValues(env.States)
	if err != nil {
		return "", err
	}

	p, err := h.Registry().Get(env.Plugin)
	if err != nil {
		return "", err
	}

	return p.Invoke(env.Command, env.Data, states)
}

// HandleEnvelope decodes a raw JSON request, runs it, and returns the
// response. It never fails; errors are carried in the result.
func (h *Host) HandleEnvelope(raw []byte) plugins.InvocationResult {
	env, err := plugins.DecodeEnvelope(raw)
	if err != nil {
		return plugins.NewResult("", err)
	}
	return plugins.NewResult(h.Invoke(env))
}

// HandleEnvelopeJSON is HandleEnvelope with the response encoded as JSON.
func (h *Host) HandleEnvelopeJSON(raw []byte) []byte {
	return h.HandleEnvelope(raw).JSON()
}

// stateValues maps state identifiers to the host values they stand for.
func (h *Host) stateValues(states []plugins.State) ([]string, error) {
	values := make([]string, 0, len(states))
	for _, st := range states {
		switch st {
		case plugins.StateAppdataPath:
			values = append(values, h.Settings.AppdataPath)
		case plugins.StateUserPath:
			s, err := h.Current()
			if err != nil {
				return nil, fmt.Errorf("state %s: %w", st, err)
			}
			values = append(values, s.Root)
		default:
			return nil, &kerrors.PluginError{Plugin: "unknown", Reason: fmt.Sprintf("unknown state %q", st), Err: kerrors.ErrDeserializeData}
		}
	}
	return values, nil
}
