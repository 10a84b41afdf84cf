package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/plugins"
)

// memLibrary is an in-memory plugin library.
type memLibrary map[string]func(data, states string) string

func (l memLibrary) Lookup(symbol string) (plugins.Export, error) {
	fn, ok := l[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSymbolNotFound, symbol)
	}
	return memExport(fn), nil
}

func (l memLibrary) Close() error { return nil }

type memExport func(data, states string) string

func (e memExport) Call(data, states string) (string, error) { return e(data, states), nil }

// installTestPlugin writes a plugin directory whose library is lib.
func installTestPlugin(t *testing.T, appdata, id, manifest string, lib plugins.Library) {
	t.Helper()
	dir := filepath.Join(appdata, "plugins", id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, plugins.ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	libs := map[string]plugins.Library{}
	if pluginOpener != nil {
		// Chain onto a previously installed opener.
		prev := pluginOpener
		setTestOpener(t, func(path string) (plugins.Library, error) {
			if l, ok := libs[path]; ok {
				return l, nil
			}
			return prev(path)
		})
	} else {
		setTestOpener(t, func(path string) (plugins.Library, error) {
			if l, ok := libs[path]; ok {
				return l, nil
			}
			return nil, fmt.Errorf("failed to import lib %s", path)
		})
	}
	libs[filepath.Join(dir, "lib.so")] = lib
}

func TestPluginsList_Empty(t *testing.T) {
	appdata, _ := setupTestEnvironment(t)

	output, err := runCLI(t, "plugins", "list")
	if err != nil {
		t.Fatalf("plugins list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No plugins") {
		t.Errorf("unexpected output: %s", output)
	}
	if _, err := os.Stat(filepath.Join(appdata, "plugins")); err != nil {
		t.Errorf("plugins directory should be created: %v", err)
	}
}

func TestPluginsList_JSON(t *testing.T) {
	appdata, _ := setupTestEnvironment(t)
	installTestPlugin(t, appdata, "notes", `{"name":"Notes","author":"me","back":"lib.so","commands":["list"]}`,
		memLibrary{"list_external": func(string, string) string { return "[]" }})

	output, err := runCLI(t, "plugins", "list", "--json")
	if err != nil {
		t.Fatalf("plugins list: %v\n%s", err, output)
	}

	var result struct {
		Plugins []struct {
			ID       string   `json:"id"`
			Name     string   `json:"name"`
			Author   string   `json:"author"`
			Icon     *string  `json:"icon"`
			Commands []string `json:"commands"`
		} `json:"plugins"`
		Failures []any `json:"failures"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", output, err)
	}
	if len(result.Plugins) != 1 {
		t.Fatalf("plugins = %+v", result.Plugins)
	}
	p := result.Plugins[0]
	if p.ID != "notes" || p.Name != "Notes" || p.Icon != nil || len(p.Commands) != 1 {
		t.Errorf("plugin = %+v", p)
	}
}

func TestPluginsList_BrokenPluginAborts(t *testing.T) {
	appdata, _ := setupTestEnvironment(t)
	installTestPlugin(t, appdata, "good", `{"name":"G","author":"me","back":"lib.so"}`, memLibrary{})
	installTestPlugin(t, appdata, "broken", `{"name":`, memLibrary{})

	output, err := runCLI(t, "plugins", "list")
	if err == nil {
		t.Fatalf("expected failure, got %s", output)
	}
	if !strings.Contains(output, "skip_broken") {
		t.Errorf("expected a hint about skip_broken, got %s", output)
	}

	config := "[plugins]\nskip_broken = true\n"
	if err := os.WriteFile(filepath.Join(appdata, "config.toml"), []byte(config), 0600); err != nil {
		t.Fatal(err)
	}
	output, err = runCLI(t, "plugins", "list")
	if err != nil {
		t.Fatalf("plugins list with skip_broken: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Skipped broken") || !strings.Contains(output, "good") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestPluginsInvoke(t *testing.T) {
	appdata, _ := setupTestEnvironment(t)
	installTestPlugin(t, appdata, "tool", `{"name":"Tool","author":"me","back":"lib.so"}`, memLibrary{
		"echo_external":   func(data, _ string) string { return data },
		"states_external": func(_, states string) string { return states },
		"fail_external":   func(string, string) string { return "err:out of ink" },
	})

	output, err := runCLI(t, "plugins", "invoke", "--no-login", "tool", "echo", "--data", `{"a":1}`)
	if err != nil {
		t.Fatalf("invoke: %v\n%s", err, output)
	}
	if strings.TrimSpace(output) != `{"a":1}` {
		t.Errorf("output = %q", output)
	}

	output, err = runCLI(t, "plugins", "invoke", "--no-login", "tool", "states", "--state", "AppdataPath")
	if err != nil {
		t.Fatalf("invoke states: %v\n%s", err, output)
	}
	var states []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &states); err != nil || len(states) != 1 || states[0] != appdata {
		t.Errorf("states output = %q (%v)", output, err)
	}

	output, err = runCLI(t, "plugins", "invoke", "--no-login", "tool", "fail")
	if err == nil {
		t.Fatalf("expected failure, got %s", output)
	}
	if !strings.Contains(output, "error details: out of ink") {
		t.Errorf("unexpected output: %s", output)
	}

	output, err = runCLI(t, "plugins", "invoke", "--no-login", "tool", "echo", "--state", "Nope")
	if err == nil || !strings.Contains(output, "unknown variant") {
		t.Errorf("bad state: %v, %s", err, output)
	}
}

func TestPluginsCall(t *testing.T) {
	appdata, _ := setupTestEnvironment(t)
	installTestPlugin(t, appdata, "tool", `{"name":"Tool","author":"me","back":"lib.so"}`, memLibrary{
		"echo_external": func(data, _ string) string { return data },
	})

	run := func(input string) map[string]*string {
		t.Helper()
		var result map[string]*string
		output, err := captureOutput(func() error {
			return withStdin(t, input, func() error {
				return createTestCLI("plugins", "call", "--no-login").Execute()
			})
		})
		if err != nil {
			t.Fatalf("plugins call: %v\n%s", err, output)
		}
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("invalid JSON %q: %v", output, err)
		}
		return result
	}

	res := run(`{"plugin":"tool","command":"echo","data":"hello","states":[]}`)
	if res["data"] == nil || *res["data"] != "hello" || res["err"] != nil {
		t.Errorf("success response = %v", res)
	}

	res = run(`{"plugin":"tool","command":"missing","data":"","states":[]}`)
	if res["data"] != nil || res["err"] == nil || !strings.Contains(*res["err"], "command not found") {
		t.Errorf("missing command response = %v", res)
	}

	res = run(`{"plugin":"tool"`)
	if res["err"] == nil || !strings.Contains(*res["err"], "plugin unknown") {
		t.Errorf("malformed response = %v", res)
	}
}
