package cmd

import (
	"context"
	"fmt"

	"github.com/passyvault/passy/internal/secrets"
	"github.com/passyvault/passy/internal/ui"
	"github.com/passyvault/passy/internal/utils"
	"github.com/passyvault/passy/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	vaultMatch   []string
	vaultJSON    bool
	vaultReveal  bool
	vaultUnset   []string
	vaultReplace bool
)

var VaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Read and write encrypted entries",
	Long: `Manages the encrypted entries in your vault.

Each entry is a path such as "work/github" holding a set of key/value
attributes. Entries are stored one file per entry, encrypted with your key.`,
	PersistentPreRun: initLogger,
}

func init() {
	addPersistentFlags(VaultCmd)

	vaultListCmd.Flags().StringArrayVarP(&vaultMatch, "match", "m", nil, "only list entries matching this glob (repeatable, supports **)")
	vaultListCmd.Flags().BoolVar(&vaultJSON, "json", false, "output in JSON format, including attributes")
	vaultShowCmd.Flags().BoolVar(&vaultReveal, "reveal", false, "print attribute values instead of masking them")
	vaultShowCmd.Flags().BoolVar(&vaultJSON, "json", false, "output in JSON format")
	vaultSetCmd.Flags().StringArrayVar(&vaultUnset, "unset", nil, "remove this attribute (repeatable)")
	vaultSetCmd.Flags().BoolVar(&vaultReplace, "replace", false, "replace all attributes instead of merging")

	VaultCmd.AddCommand(vaultListCmd)
	VaultCmd.AddCommand(vaultShowCmd)
	VaultCmd.AddCommand(vaultCreateCmd)
	VaultCmd.AddCommand(vaultSetCmd)
	VaultCmd.AddCommand(vaultDeleteCmd)
}

func resetVaultCommandState() {
	vaultMatch = nil
	vaultJSON = false
	vaultReveal = false
	vaultUnset = nil
	vaultReplace = false
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vault entries",
	Long: `Decrypts and lists every entry in your vault.

Listing is all-or-nothing: if any entry cannot be decrypted, nothing is
shown and the failing entry is reported.

Examples:
  passy vault list
  passy vault list --match 'work/**'
  passy vault list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault list command")

		spinner, cleanup := startSpinner("Decrypting vault...", verbose)
		defer cleanup()

		host, err := unlockHost(false)
		if err != nil {
			return fail(spinner, err)
		}
		defer host.Logout()

		entries, err := host.Entries()
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Debugf("Decrypted %d entries", len(entries))

		entries, err = secrets.Filter(entries, vaultMatch)
		if err != nil {
			return fail(spinner, err)
		}

		if vaultJSON {
			spinner.FinalMSG = ""
			cleanup()
			if entries == nil {
				entries = []secrets.Entry{}
			}
			return printJSON(entries)
		}

		if len(entries) == 0 {
			spinner.FinalMSG = ui.Info.Sprint("ℹ") + " No entries found"
			return nil
		}

		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" %d entries:", len(entries)) + utils.FormatPaths(paths)
		return nil
	},
}

var vaultShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault show command")

		spinner, cleanup := startSpinner("Decrypting entry...", verbose)
		defer cleanup()

		host, err := unlockHost(false)
		if err != nil {
			return fail(spinner, err)
		}
		defer host.Logout()

		entry, err := host.ReadEntry(args[0])
		if err != nil {
			return fail(spinner, err)
		}

		if vaultJSON {
			spinner.FinalMSG = ""
			cleanup()
			return printJSON(entry)
		}

		spinner.FinalMSG = ui.Highlight.Sprint(entry.Path) + "\n" + ui.Attributes(entry.Attributes, vaultReveal)
		return nil
	},
}

var vaultCreateCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Create an empty entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault create command")

		spinner, cleanup := startSpinner("Creating entry...", verbose)
		defer cleanup()

		host, err := unlockHost(false)
		if err != nil {
			return fail(spinner, err)
		}
		defer host.Logout()

		entry, err := host.CreateEntry(args[0])
		if err != nil {
			return fail(spinner, err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Created " + ui.Path.Sprint(entry.Path)
		return nil
	},
}

var vaultSetCmd = &cobra.Command{
	Use:   "set <path> [key=value]...",
	Short: "Set attributes on an entry",
	Long: `Sets attributes on an entry, creating the entry if it does not exist.

Attributes are merged into the existing ones unless --replace is given.
Keys cannot contain ':' or line breaks, and values cannot contain line
breaks or leading or trailing whitespace.

Examples:
  passy vault set work/github user=alice password=hunter2
  passy vault set work/github --unset otp
  passy vault set work/github --replace password=new`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault set command")

		spinner, cleanup := startSpinner("Updating entry...", verbose)
		defer cleanup()

		host, err := unlockHost(false)
		if err != nil {
			return fail(spinner, err)
		}
		defer host.Logout()

		result, err := workflows.SetAttributes(context.Background(), host, workflows.SetOptions{
			Path:        args[0],
			Assignments: args[1:],
			Unset:       vaultUnset,
			Replace:     vaultReplace,
		})
		if err != nil {
			return fail(spinner, err)
		}

		verb := "Updated"
		if result.Created {
			verb = "Created"
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " " + verb + " " + ui.Path.Sprint(result.Entry.Path) +
			fmt.Sprintf(" (%d attributes)", len(result.Entry.Attributes))
		return nil
	},
}

var vaultDeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault delete command")

		spinner, cleanup := startSpinner("Deleting entry...", verbose)
		defer cleanup()

		host, err := unlockHost(false)
		if err != nil {
			return fail(spinner, err)
		}
		defer host.Logout()

		if err := host.DeleteEntry(args[0]); err != nil {
			return fail(spinner, err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Deleted " + ui.Path.Sprint(args[0])
		return nil
	},
}
