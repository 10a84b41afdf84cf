package cmd

import (
	"context"
	"fmt"

	"github.com/passyvault/passy/internal/audit"
	"github.com/passyvault/passy/internal/ui"
	"github.com/passyvault/passy/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	auditLimit     int
	auditReverse   bool
	auditUser      string
	auditOperation string
	auditPlugin    string
	auditFailed    bool
	auditSince     string
	auditUntil     string
	auditOneline   bool
	auditJSON      bool
)

var AuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the audit trail",
	Long: `Displays the audit trail of vault and plugin operations.

Shows who did what and when. Attribute values and plugin payloads are
never recorded.

Examples:
  passy audit                          # View the full trail
  passy audit -n 10                    # Last 10 entries
  passy audit --reverse                # Most recent first
  passy audit --operation invoke,load  # Filter by operation
  passy audit --plugin notes --failed  # Failed calls into one plugin
  passy audit --since 2024-01-01       # Filter by date
  passy audit --json                   # JSON output`,
	Args:             cobra.NoArgs,
	PersistentPreRun: initLogger,
	RunE:             runAudit,
}

func init() {
	AuditCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	AuditCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	AuditCmd.PersistentFlags().StringVar(&appdataFlag, "appdata", "", "application data directory (default $PASSY_HOME or the OS config dir)")

	AuditCmd.Flags().IntVarP(&auditLimit, "number", "n", 0, "limit number of entries shown")
	AuditCmd.Flags().BoolVar(&auditReverse, "reverse", false, "show most recent entries first")
	AuditCmd.Flags().StringVar(&auditUser, "user", "", "filter by vault user")
	AuditCmd.Flags().StringVar(&auditOperation, "operation", "", "filter by operation type (comma-separated)")
	AuditCmd.Flags().StringVar(&auditPlugin, "plugin", "", "filter by plugin id")
	AuditCmd.Flags().BoolVar(&auditFailed, "failed", false, "only show failed operations")
	AuditCmd.Flags().StringVar(&auditSince, "since", "", "show entries after date (YYYY-MM-DD)")
	AuditCmd.Flags().StringVar(&auditUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	AuditCmd.Flags().BoolVar(&auditOneline, "oneline", false, "compact one-line format")
	AuditCmd.Flags().BoolVar(&auditJSON, "json", false, "output as JSON array")
}

func resetAuditCommandState() {
	auditLimit = 0
	auditReverse = false
	auditUser = ""
	auditOperation = ""
	auditPlugin = ""
	auditFailed = false
	auditSince = ""
	auditUntil = ""
	auditOneline = false
	auditJSON = false
}

func runAudit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting audit command")

	spinner, cleanup := startSpinner("Loading audit trail...", verbose)
	defer cleanup()

	host, err := openHost()
	if err != nil {
		return fail(spinner, err)
	}

	result, err := workflows.Log(context.Background(), host.Trail, workflows.LogOptions{
		Limit:      auditLimit,
		Reverse:    auditReverse,
		User:       auditUser,
		Operations: auditOperation,
		Plugin:     auditPlugin,
		FailedOnly: auditFailed,
		Since:      auditSince,
		Until:      auditUntil,
	})
	if err != nil {
		return fail(spinner, err)
	}

	Logger.Debugf("Parsed %d entries from audit trail", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	spinner.FinalMSG = ""
	cleanup()

	if auditJSON {
		entries := result.Entries
		if entries == nil {
			entries = []audit.Entry{}
		}
		return printJSON(entries)
	}

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println(ui.Info.Sprint("ℹ") + " No audit entries found.")
		} else {
			fmt.Println(ui.Info.Sprint("ℹ") + " No audit entries found matching the filters.")
		}
		return nil
	}

	for _, e := range result.Entries {
		if auditOneline {
			fmt.Printf("%s %s %s %s\n", workflows.FormatDate(e.Timestamp), e.User, e.Operation, workflows.FormatDetailsOneline(e))
			continue
		}
		fmt.Printf("%-19s  %-16s  %-8s  %s\n", workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, workflows.FormatDetails(e))
	}
	return nil
}
