package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old generated reports",
	Long: `Deletes generated reports older than --days (default REPORTS_RETENTION_DAYS).
--all deletes every generated report. Other files in REPORTS_DIR are left alone.

Example:
  go run ./cmd/investo cleanup
  go run ./cmd/investo cleanup --days 3
  go run ./cmd/investo cleanup --all`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

var (
	cleanupDays int
	cleanupAll  bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "retention in days (0 = REPORTS_RETENTION_DAYS)")
	cleanupCmd.Flags().BoolVar(&cleanupAll, "all", false, "delete every generated report")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if cleanupDays < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	d, err := buildDeps(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer d.Close()

	days := cleanupDays
	if days == 0 {
		days = d.cfg.Reports.RetentionDays
	}
	olderThan := time.Duration(days) * 24 * time.Hour
	if cleanupAll {
		olderThan = 0
	}

	out := cmd.OutOrStdout()
	if cleanupAll {
		PrintHeader(out, "Report cleanup: all reports in "+d.renderer.Dir())
	} else {
		PrintHeader(out, fmt.Sprintf("Report cleanup: older than %d days in %s", days, d.renderer.Dir()))
	}

	deleted, err := d.renderer.Cleanup(olderThan)
	if err != nil {
		PrintWarning(out, fmt.Sprintf("Some reports could not be deleted: %v", err))
	}
	PrintSuccess(out, fmt.Sprintf("Deleted %d report(s)", deleted))
	return err
}
