package plugins

import (
	"encoding/json"
	"fmt"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// State names a host value a caller asks to pass to a plugin.
type State string

const (
	// StateAppdataPath is the application data root.
	StateAppdataPath State = "AppdataPath"
	// StateUserPath is the logged-in user's vault root.
	StateUserPath State = "UserPath"
)

// ParseState returns the state with the given name.
func ParseState(name string) (State, error) {
	switch st := State(name); st {
	case StateAppdataPath, StateUserPath:
		return st, nil
	}
	return "", fmt.Errorf("unknown variant `%s`, expected `AppdataPath` or `UserPath`", name)
}

// UnmarshalJSON accepts only known state names.
func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	st, err := ParseState(name)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// InvocationEnvelope is a request to run a plugin command.
type InvocationEnvelope struct {
	Plugin  string  `json:"plugin"`
	Command string  `json:"command"`
	Data    string  `json:"data"`
	States  []State `json:"states"`
}

// DecodeEnvelope parses a JSON invocation request. Every field is required;
// data is an opaque string passed to the plugin unchanged.
func DecodeEnvelope(raw []byte) (InvocationEnvelope, error) {
	var wire struct {
		Plugin  *string  `json:"plugin"`
		Command *string  `json:"command"`
		Data    *string  `json:"data"`
		States  *[]State `json:"states"`
	}

	fail := func(reason string) error {
		return &kerrors.PluginError{Plugin: "unknown", Reason: reason, Err: kerrors.ErrDeserializeData}
	}

	if err := json.Unmarshal(raw, &wire); err != nil {
		return InvocationEnvelope{}, fail(err.Error())
	}

	switch {
	case wire.Plugin == nil:
		return InvocationEnvelope{}, fail("missing field `plugin`")
	case wire.Command == nil:
		return InvocationEnvelope{}, fail("missing field `command`")
	case wire.Data == nil:
		return InvocationEnvelope{}, fail("missing field `data`")
	case wire.States == nil:
		return InvocationEnvelope{}, fail("missing field `states`")
	}

	return InvocationEnvelope{
		Plugin:  *wire.Plugin,
		Command: *wire.Command,
		Data:    *wire.Data,
		States:  *wire.States,
	}, nil
}

// InvocationResult is the response to an envelope. Exactly one field is set.
type InvocationResult struct {
	Data *string `json:"data"`
	Err  *string `json:"err"`
}

// NewResult builds the response for a call that returned data and err.
func NewResult(data string, err error) InvocationResult {
	if err != nil {
		msg := kerrors.Render(err)
		return InvocationResult{Err: &msg}
	}
	return InvocationResult{Data: &data}
}

// JSON encodes the result.
func (r InvocationResult) JSON() []byte {
	// Two optional strings always marshal.
	b, _ := json.Marshal(r)
	return b
}
