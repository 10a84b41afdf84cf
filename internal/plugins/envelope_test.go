package plugins

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	kerrors "github.com/passyvault/passy/internal/errors"
)

func TestDecodeEnvelope(t *testing.T) {
	raw := `{"plugin":"notes","command":"list","data":"{\"q\":1}","states":["AppdataPath","UserPath"]}`
	env, err := DecodeEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.Plugin != "notes" || env.Command != "list" || env.Data != `{"q":1}` {
		t.Errorf("unexpected envelope %+v", env)
	}
	if len(env.States) != 2 || env.States[0] != StateAppdataPath || env.States[1] != StateUserPath {
		t.Errorf("states = %v", env.States)
	}
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"plugin":`,
		"unknown state":   `{"plugin":"p","command":"c","data":"","states":["HomePath"]}`,
		"missing plugin":  `{"command":"c","data":"","states":[]}`,
		"missing command": `{"plugin":"p","data":"","states":[]}`,
		"missing data":    `{"plugin":"p","command":"c","states":[]}`,
		"missing states":  `{"plugin":"p","command":"c","data":""}`,
		"data not string": `{"plugin":"p","command":"c","data":{},"states":[]}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(raw))
			if !errors.Is(err, kerrors.ErrDeserializeData) {
				t.Fatalf("expected ErrDeserializeData, got %v", err)
			}
			var pe *kerrors.PluginError
			if !errors.As(err, &pe) || pe.Plugin != "unknown" {
				t.Errorf("expected plugin \"unknown\", got %v", err)
			}
		})
	}
}

func TestNewResult(t *testing.T) {
	ok, _ := json.Marshal(NewResult("payload", nil))
	if string(ok) != `{"data":"payload","err":null}` {
		t.Errorf("success = %s", ok)
	}

	empty, _ := json.Marshal(NewResult("", nil))
	if string(empty) != `{"data":"","err":null}` {
		t.Errorf("empty success = %s", empty)
	}

	perr := &kerrors.PluginError{Plugin: "p", Command: "c", Reason: "boom", Err: kerrors.ErrPluginReported}
	failed, _ := json.Marshal(NewResult("ignored", perr))
	want := fmt.Sprintf(`{"data":null,"err":%q}`, perr.Error())
	if string(failed) != want {
		t.Errorf("failure = %s, want %s", failed, want)
	}
}

func TestParseState(t *testing.T) {
	for _, name := range []string{"AppdataPath", "UserPath"} {
		if st, err := ParseState(name); err != nil || string(st) != name {
			t.Errorf("ParseState(%q) = %q, %v", name, st, err)
		}
	}
	if _, err := ParseState("appdatapath"); err == nil {
		t.Error("state names are case-sensitive")
	}
}

func TestInvocationResult_JSON(t *testing.T) {
	if got := string(NewResult("x", nil).JSON()); got != `{"data":"x","err":null}` {
		t.Errorf("got %s", got)
	}
}
