package cmd

import (
	"fmt"
	"os"

	"github.com/passyvault/passy/internal/ui"
	"github.com/passyvault/passy/internal/utils"
	"github.com/spf13/cobra"
)

var keygenOutput string

var KeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new vault key",
	Long: `Generates a random 256-bit vault key and prints it as hex.

With --output the key is written to a file readable only by you, suitable
for --key-file.

Examples:
  passy keygen
  passy keygen --output ~/.passy.key`,
	Args:             cobra.NoArgs,
	PersistentPreRun: initLogger,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := utils.GenerateKey()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to generate key: %v", err)
		}

		if keygenOutput == "" {
			fmt.Println(key)
			return nil
		}

		if err := os.WriteFile(keygenOutput, []byte(key+"\n"), 0600); err != nil {
			return Logger.ErrorfAndReturn("failed to write key file: %v", err)
		}
		fmt.Println(ui.Success.Sprint("✓") + " Wrote key to " + ui.Path.Sprint(keygenOutput))
		return nil
	},
}

func init() {
	KeygenCmd.Flags().StringVarP(&keygenOutput, "output", "o", "", "write the key to this file instead of stdout")
	KeygenCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	KeygenCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}
