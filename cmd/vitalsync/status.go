// ABOUTME: CLI command for summarizing the sync ledger.
// ABOUTME: Prints counts by ledger state and recent failed rows.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborhealth/vitalsync/internal/models"
)

var statusFailedLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync ledger counts and recent failures",
	Long: `Status prints the sync_status ledger's row count by state, plus the
most recent FAILED rows, so a partially-failed sync can be diagnosed
before rerunning it.

Example:
  $ vitalsync status --user-id 123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUserID()
		if err != nil {
			return err
		}

		counts, err := store.CountSyncStatusByState(userID)
		if err != nil {
			return fmt.Errorf("count sync status: %w", err)
		}

		states := []models.SyncState{models.StatePending, models.StateCompleted, models.StateSkipped, models.StateFailed}
		fmt.Println("Ledger state counts:")
		for _, s := range states {
			fmt.Printf("  %-10s %d\n", s, counts[s])
		}

		failed, err := store.RecentFailed(userID, statusFailedLimit)
		if err != nil {
			return fmt.Errorf("recent failed: %w", err)
		}

		if len(failed) == 0 {
			printOK("no failed rows")
			return nil
		}

		fmt.Printf("\nRecent failed rows (showing up to %d):\n", statusFailedLimit)
		fmt.Printf("%-12s %-18s %s\n", "DATE", "METRIC", "ERROR")
		for _, s := range failed {
			errMsg := ""
			if s.ErrorMessage != nil {
				errMsg = *s.ErrorMessage
			}
			fmt.Printf("%-12s %-18s %s\n", s.SyncDate, s.MetricKind, errMsg)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusFailedLimit, "limit", 20, "maximum recent failed rows to show")
	rootCmd.AddCommand(statusCmd)
}
