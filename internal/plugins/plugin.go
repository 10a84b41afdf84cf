package plugins

import (
	"encoding/json"
	"errors"
	"strings"

	kerrors "github.com/passyvault/passy/internal/errors"
	logger "github.com/passyvault/passy/internal/logging"
)

// OnLoadCommand is called once after a plugin is loaded, if exported.
const OnLoadCommand = "on_load"

// Plugin is a loaded plugin. It is immutable once the loader returns it.
type Plugin struct {
	ID       string
	Dir      string
	Manifest Manifest

	lib            Library
	exports        map[string]Export
	resolvePerCall bool
	log            logger.Logger
}

// Invoke calls command with the caller's data and the host states.
//
// The returned error is a *errors.PluginError wrapping ErrSymbolNotFound
// when the export is missing, ErrPluginReported when the plugin returned an
// "err:" result or NULL, and ErrDeserializeData when the inputs cannot be
// passed as C strings.
func (p *Plugin) Invoke(command, data string, states []string) (string, error) {
	fail := func(kind error, reason string) error {
		return &kerrors.PluginError{Plugin: p.ID, Command: command, Reason: reason, Err: kind}
	}

	if !validCommand(command) {
		return "", fail(kerrors.ErrSymbolNotFound, "")
	}

	export, err := p.export(command)
	if err != nil {
		return "", fail(kerrors.ErrSymbolNotFound, "")
	}

	statesJSON, err := encodeStates(states)
	if err != nil {
		return "", fail(kerrors.ErrDeserializeData, err.Error())
	}
	if err := checkCString("data", data); err != nil {
		return "", fail(kerrors.ErrDeserializeData, err.Error())
	}
	if err := checkCString("states", statesJSON); err != nil {
		return "", fail(kerrors.ErrDeserializeData, err.Error())
	}

	p.log.Debugf("Calling %s in plugin %s", SymbolName(command), p.ID)
	result, err := export.Call(data, statesJSON)
	if err != nil {
		if errors.Is(err, kerrors.ErrDeserializeData) {
			return "", fail(kerrors.ErrDeserializeData, err.Error())
		}
		return "", fail(kerrors.ErrPluginReported, err.Error())
	}

	if detail, ok := strings.CutPrefix(result, ErrorMarker); ok {
		return "", fail(kerrors.ErrPluginReported, detail)
	}
	return result, nil
}

// export returns the symbol for command, from the load-time table unless
// symbols are resolved on every call.
func (p *Plugin) export(command string) (Export, error) {
	if !p.resolvePerCall {
		if e, ok := p.exports[command]; ok {
			return e, nil
		}
	}
	return p.lib.Lookup(SymbolName(command))
}

// Commands returns the commands declared in the manifest.
func (p *Plugin) Commands() []string {
	return append([]string(nil), p.Manifest.Commands...)
}

func encodeStates(states []string) (string, error) {
	if states == nil {
		states = []string{}
	}
	b, err := json.Marshal(states)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
