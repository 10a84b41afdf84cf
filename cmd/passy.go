package cmd

import (
	"context"

	logger "github.com/passyvault/passy/internal/logging"
	"github.com/passyvault/passy/internal/plugins"
	"github.com/passyvault/passy/internal/session"
	"github.com/passyvault/passy/internal/utils"
	"github.com/passyvault/passy/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	appdataFlag string
	userFlag    string
	keyFileFlag string

	// pluginOpener replaces the native loader in tests.
	pluginOpener plugins.Opener
)

// addPersistentFlags registers the flags shared by every command group.
func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	cmd.PersistentFlags().StringVar(&appdataFlag, "appdata", "", "application data directory (default $PASSY_HOME or the OS config dir)")
	cmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "vault user (default: your OS username)")
	cmd.PersistentFlags().StringVar(&keyFileFlag, "key-file", "", "file holding the vault key (default $PASSY_KEY or a prompt)")
}

func initLogger(cmd *cobra.Command, args []string) {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}
	Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
}

func openOptions() workflows.OpenOptions {
	return workflows.OpenOptions{
		Appdata: appdataFlag,
		Opener:  pluginOpener,
		Logger:  Logger,
	}
}

// openHost returns a host with nobody logged in.
func openHost() (*session.Host, error) {
	return workflows.Open(context.Background(), openOptions())
}

// unlockHost returns a host logged in as --user. When stdin carries other
// input the key prompt reads from the terminal directly.
func unlockHost(stdinInUse bool) (*session.Host, error) {
	prompt := utils.ReadPassphrase
	if stdinInUse || !utils.IsTerminal() {
		prompt = nil
		if utils.IsTTYAvailable() {
			prompt = utils.ReadPassphraseFromTTY
		}
	}

	return workflows.Unlock(context.Background(), workflows.UnlockOptions{
		OpenOptions: openOptions(),
		User:        userFlag,
		KeyFile:     keyFileFlag,
		Prompt:      prompt,
	})
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	appdataFlag = ""
	userFlag = ""
	keyFileFlag = ""
	resetVaultCommandState()
	resetPluginsCommandState()
	resetAuditCommandState()
	resetConfigCommandState()
	keygenOutput = ""
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
