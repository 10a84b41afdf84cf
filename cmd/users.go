package cmd

import (
	"fmt"

	"github.com/passyvault/passy/internal/ui"
	"github.com/spf13/cobra"
)

var UsersCmd = &cobra.Command{
	Use:              "users",
	Short:            "Manage vault users",
	Long:             `Lists and creates the users whose vaults live under the appdata directory.`,
	PersistentPreRun: initLogger,
}

func init() {
	addPersistentFlags(UsersCmd)

	UsersCmd.AddCommand(usersListCmd)
	UsersCmd.AddCommand(usersCreateCmd)
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vault users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting users list command")

		host, err := openHost()
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		users, err := host.Users()
		if err != nil {
			fmt.Println(formatError(err))
			return errSilent
		}

		if len(users) == 0 {
			fmt.Println(ui.Info.Sprint("ℹ") + " No users yet. Run " + ui.Code.Sprint("passy users create <name>") + " to add one.")
			return nil
		}

		for _, u := range users {
			fmt.Println(u.Name)
		}
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a vault user",
	Long: `Creates an empty vault directory for a new user.

Entries are encrypted with whatever key is used when they are written; the
user directory itself holds no key material. Generate a key with
'passy keygen' and keep it somewhere safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting users create command")
		name := args[0]

		spinner, cleanup := startSpinner("Creating user...", verbose)
		defer cleanup()

		host, err := openHost()
		if err != nil {
			return fail(spinner, err)
		}

		if err := host.CreateUser(name); err != nil {
			return fail(spinner, err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Created user " + ui.Highlight.Sprint(name) +
			" at " + ui.Path.Sprint(host.Settings.UserPath(name))
		return nil
	},
}
