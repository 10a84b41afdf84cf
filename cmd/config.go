package cmd

import (
	"fmt"
	"os"

	"github.com/passyvault/passy/internal/configs"
	"github.com/passyvault/passy/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configShowJSON  bool
	configInitForce bool

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage passy configuration",
		Long: `Provides commands for inspecting and changing config.toml in the appdata
directory.

Examples:
  # Show resolved paths and settings
  passy config show

  # Write a config.toml with the defaults
  passy config init

  # Keep loading plugins when one of them is broken
  passy config set plugins.skip_broken true`,
		PersistentPreRun: initLogger,
	}
)

func init() {
	addPersistentFlags(ConfigCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.toml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

// configView is the JSON shape of 'config show'.
type configView struct {
	Appdata string          `json:"appdata"`
	Plugins string          `json:"plugins"`
	Config  string          `json:"config"`
	Audit   string          `json:"audit"`
	Exists  bool            `json:"config_exists"`
	Values  *configs.Config `json:"values"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved paths and configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		settings, err := configs.ResolveSettings(appdataFlag)
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		config, unknown, err := configs.LoadConfig(settings)
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}
		for _, key := range unknown {
			Logger.Warnf("Ignoring unknown config key %s", key)
		}

		_, statErr := os.Stat(settings.ConfigPath)
		view := configView{
			Appdata: settings.AppdataPath,
			Plugins: config.PluginsPath(settings),
			Config:  settings.ConfigPath,
			Audit:   settings.AuditPath,
			Exists:  statErr == nil,
			Values:  config,
		}

		if configShowJSON {
			return printJSON(view)
		}

		fmt.Println(ui.Info.Sprint("Paths"))
		fmt.Printf("  appdata:  %s\n", ui.Path.Sprint(view.Appdata))
		fmt.Printf("  plugins:  %s\n", ui.Path.Sprint(view.Plugins))
		fmt.Printf("  audit:    %s\n", ui.Path.Sprint(view.Audit))
		if view.Exists {
			fmt.Printf("  config:   %s\n", ui.Path.Sprint(view.Config))
		} else {
			fmt.Printf("  config:   %s %s\n", ui.Path.Sprint(view.Config), ui.Muted.Sprint("not created, using defaults"))
		}
		fmt.Println()
		fmt.Println(ui.Info.Sprint("Settings"))
		fmt.Printf("  vault.cipher:              %s\n", config.Suite())
		fmt.Printf("  plugins.skip_broken:       %t\n", config.Plugins.SkipBroken)
		fmt.Printf("  plugins.resolve_per_call:  %t\n", config.Plugins.ResolvePerCall)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.toml with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		settings, err := configs.ResolveSettings(appdataFlag)
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		if _, err := os.Stat(settings.ConfigPath); err == nil && !configInitForce {
			fmt.Println(ui.Warning.Sprint("⚠") + " " + ui.Path.Sprint(settings.ConfigPath) + " already exists")
			fmt.Println(ui.Info.Sprint("→") + " Use " + ui.Code.Sprint("passy config init --force") + " to overwrite it")
			return nil
		}

		if err := configs.SaveConfig(settings, configs.Default()); err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		Logger.Infof("Wrote default config to %s", settings.ConfigPath)
		fmt.Println(ui.Success.Sprint("✓") + " Wrote " + ui.Path.Sprint(settings.ConfigPath))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in config.toml",
	Long: `Changes one setting in config.toml, creating the file if needed.

Keys:
  vault.cipher              aes-256-gcm or chacha20-poly1305
  plugins.dir               directory scanned for plugins
  plugins.skip_broken       true to skip plugins that fail to load
  plugins.resolve_per_call  false to resolve declared commands at load time`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command")
		key, value := args[0], args[1]

		settings, err := configs.ResolveSettings(appdataFlag)
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		config, _, err := configs.LoadConfig(settings)
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		if err := config.Set(key, value); err != nil {
			fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
			return errSilent
		}

		if err := configs.SaveConfig(settings, config); err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		Logger.Debugf("Set %s = %s in %s", key, value, settings.ConfigPath)
		fmt.Println(ui.Success.Sprint("✓") + " Set " + ui.Highlight.Sprint(key) + " to " + ui.Code.Sprint(value))
		return nil
	},
}

func resetConfigCommandState() {
	configShowJSON = false
	configInitForce = false
}

// resetCobraFlagState clears the Changed mark on every flag under cmd so one
// test run does not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	unmark := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(unmark)
	cmd.PersistentFlags().VisitAll(unmark)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

