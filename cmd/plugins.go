package cmd

import (
	"fmt"
	"sort"
	"strings"

	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/plugins"
	"github.com/passyvault/passy/internal/session"
	"github.com/passyvault/passy/internal/ui"
	"github.com/passyvault/passy/internal/utils"
	"github.com/spf13/cobra"
)

var (
	pluginsJSON   bool
	invokeData    string
	invokeStates  []string
	invokeNoLogin bool
	callNoLogin   bool
)

var PluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Load and call native plugins",
	Long: `Loads the native plugins under <appdata>/plugins and calls their commands.

Each plugin is a directory holding a manifest.json and a shared library
exporting "<command>_external" functions. See 'passy plugins list --help'.`,
	PersistentPreRun: initLogger,
}

func init() {
	addPersistentFlags(PluginsCmd)

	pluginsListCmd.Flags().BoolVar(&pluginsJSON, "json", false, "output resolved manifests as JSON")

	pluginsInvokeCmd.Flags().StringVar(&invokeData, "data", "", "JSON payload passed to the command")
	pluginsInvokeCmd.Flags().StringArrayVar(&invokeStates, "state", nil, "host state to pass: AppdataPath or UserPath (repeatable)")
	pluginsInvokeCmd.Flags().BoolVar(&invokeNoLogin, "no-login", false, "do not log in before invoking (UserPath is then unavailable)")

	pluginsCallCmd.Flags().BoolVar(&callNoLogin, "no-login", false, "do not log in before invoking (UserPath is then unavailable)")

	PluginsCmd.AddCommand(pluginsListCmd)
	PluginsCmd.AddCommand(pluginsInvokeCmd)
	PluginsCmd.AddCommand(pluginsCallCmd)
}

func resetPluginsCommandState() {
	pluginsJSON = false
	invokeData = ""
	invokeStates = nil
	invokeNoLogin = false
	callNoLogin = false
}

// pluginListing is the JSON shape of one plugin in "plugins list --json".
type pluginListing struct {
	ID string `json:"id"`
	plugins.ResolvedManifest
	Commands []string `json:"commands,omitempty"`
}

// pluginFailure is the JSON shape of a plugin skipped by the load pass.
type pluginFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Load plugins and list them",
	Long: `Runs a load pass over the plugins directory and lists what loaded.

A plugin directory contains:
  manifest.json   {"name": "...", "author": "...", "icon": "icon.png",
                   "back": "libfoo.so", "commands": ["sync"]}
  libback.so      the library (back.dll on Windows, libback.dylib on macOS)

By default one broken plugin stops the whole pass. Set skip_broken = true
under [plugins] in config.toml to load the rest and report the failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting plugins list command")

		spinner, cleanup := startSpinner("Loading plugins...", verbose)
		defer cleanup()

		host, err := openHost()
		if err != nil {
			return fail(spinner, err)
		}

		reg, err := host.ReloadPlugins()
		if err != nil {
			return fail(spinner, err)
		}

		manifests := reg.Manifests()
		ids := reg.IDs()

		if pluginsJSON {
			spinner.FinalMSG = ""
			cleanup()

			listing := make([]pluginListing, 0, len(ids))
			for _, id := range ids {
				p, _ := reg.Get(id)
				listing = append(listing, pluginListing{ID: id, ResolvedManifest: manifests[id], Commands: p.Commands()})
			}
			failures := make([]pluginFailure, 0, len(reg.Failures))
			for id, ferr := range reg.Failures {
				failures = append(failures, pluginFailure{ID: id, Error: kerrors.Render(ferr)})
			}
			sort.Slice(failures, func(i, j int) bool { return failures[i].ID < failures[j].ID })

			return printJSON(struct {
				Plugins  []pluginListing `json:"plugins"`
				Failures []pluginFailure `json:"failures"`
			}{listing, failures})
		}

		var b strings.Builder
		if len(ids) == 0 {
			b.WriteString(ui.Info.Sprint("ℹ") + " No plugins in " + ui.Path.Sprint(host.Config.PluginsPath(host.Settings)))
		} else {
			b.WriteString(ui.Success.Sprint("✓") + fmt.Sprintf(" Loaded %d plugin(s):\n", len(ids)))
			for _, id := range ids {
				m := manifests[id]
				b.WriteString(fmt.Sprintf("    - %s %s by %s", ui.Highlight.Sprint(id), ui.Muted.Sprint("("+m.Name+")"), m.Author))
				if m.Icon == nil {
					b.WriteString(ui.Muted.Sprint(" [no icon]"))
				}
				b.WriteString("\n")
			}
		}
		failed := make([]string, 0, len(reg.Failures))
		for id := range reg.Failures {
			failed = append(failed, id)
		}
		sort.Strings(failed)
		for _, id := range failed {
			b.WriteString("\n" + ui.Warning.Sprint("⚠") + " Skipped " + ui.Highlight.Sprint(id) + ": " + kerrors.Render(reg.Failures[id]))
		}

		spinner.FinalMSG = b.String()
		return nil
	},
}

var pluginsInvokeCmd = &cobra.Command{
	Use:   "invoke <plugin> <command>",
	Short: "Call a plugin command",
	Long: `Loads plugins and calls one command, printing the plugin's payload.

Examples:
  passy plugins invoke notes list
  passy plugins invoke notes search --data '{"q":"bank"}' --state UserPath`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting plugins invoke command")

		states := make([]plugins.State, 0, len(invokeStates))
		for _, s := range invokeStates {
			st, err := plugins.ParseState(s)
			if err != nil {
				fmt.Println(formatError(fmt.Errorf("%w: %v", kerrors.ErrDeserializeData, err)))
				return errSilent
			}
			states = append(states, st)
		}

		host, err := pluginHost(invokeNoLogin, false)
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}
		defer host.Logout()

		result, err := host.Invoke(plugins.InvocationEnvelope{
			Plugin:  args[0],
			Command: args[1],
			Data:    invokeData,
			States:  states,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		fmt.Println(result)
		return nil
	},
}

var pluginsCallCmd = &cobra.Command{
	Use:   "call",
	Short: "Handle a JSON invocation envelope from stdin",
	Long: `Reads one invocation envelope from stdin, runs it, and prints the response.

Request:
  {"plugin": "notes", "command": "list", "data": "{}", "states": ["AppdataPath"]}

Response (exactly one field is non-null):
  {"data": "<plugin payload>", "err": null}
  {"data": null, "err": "<message>"}

The exit status is zero whenever a response was printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting plugins call command")

		raw, err := utils.ReadStdin()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		host, err := pluginHost(callNoLogin, true)
		if err != nil {
			fmt.Println(string(plugins.NewResult("", err).JSON()))
			return nil
		}
		defer host.Logout()

		fmt.Println(string(host.HandleEnvelopeJSON(raw)))
		return nil
	},
}

// pluginHost opens a host, optionally logs in, and runs a load pass.
func pluginHost(noLogin, stdinInUse bool) (*session.Host, error) {
	var (
		host *session.Host
		err  error
	)
	if noLogin {
		host, err = openHost()
	} else {
		host, err = unlockHost(stdinInUse)
	}
	if err != nil {
		return nil, err
	}

	if _, err := host.ReloadPlugins(); err != nil {
		host.Logout()
		return nil, err
	}
	return host, nil
}
