package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/passyvault/passy/cmd"
	"github.com/passyvault/passy/internal/ui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "passy",
	Short: "Passy - a local secrets vault with native plugins.",
	Long: `Passy keeps each of your secrets in its own encrypted file under a local
application data directory and lets native plugins extend it.

Usage:
  passy <command> [flags]

Available Commands:
  users      Manage vault users
  vault      Read and write encrypted entries
  plugins    Load and call native plugins
  keygen     Generate a new vault key
  audit      View the audit trail
  config     Manage passy configuration

Run 'passy help <command>' for more details on a specific command.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		figure.NewColorFigure("Passy", "alligator2", "green", true).Print()
		fmt.Println()
		fmt.Println("Welcome to Passy! Run " + ui.Code.Sprint("passy --help") + " to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.UsersCmd)
	rootCmd.AddCommand(cmd.VaultCmd)
	rootCmd.AddCommand(cmd.PluginsCmd)
	rootCmd.AddCommand(cmd.KeygenCmd)
	rootCmd.AddCommand(cmd.AuditCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsSilent(err) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		}
		os.Exit(1)
	}
}
