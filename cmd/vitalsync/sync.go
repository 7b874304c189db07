// ABOUTME: CLI command for running a sync against the vendor API.
// ABOUTME: Supports a --last-days lookback window or an explicit --date-range.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arborhealth/vitalsync/internal/metrics"
	"github.com/arborhealth/vitalsync/internal/models"
	"github.com/arborhealth/vitalsync/internal/reporter"
)

var (
	syncDateRange []string
	syncLastDays  int
	syncMetrics   []string
	syncProgress  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync health data from the vendor API",
	Long: `Sync pulls daily metrics, activities, and body composition into the
local database for the given date range. Exits 0 if nothing failed, 1
if any (date, metric) task failed, and 130 if interrupted.

Examples:

  $ vitalsync sync --user-id 123 --last-days 7
  $ vitalsync sync --user-id 123 --date-range 2026-01-01,2026-01-31
  $ vitalsync sync --user-id 123 --last-days 1 --metrics daily_summary,heart_rate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUserID()
		if err != nil {
			return err
		}

		start, end, err := resolveSyncRange2(syncDateRange, syncLastDays)
		if err != nil {
			return err
		}

		kinds, err := resolveKinds(syncMetrics)
		if err != nil {
			return err
		}

		if err := applyProgressMode(syncProgress); err != nil {
			return err
		}

		stats, err := engine.SyncRange(cmd.Context(), userID, start, end, kinds)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printOK("sync complete: %d completed, %d skipped, %d failed (of %d tasks)",
			stats.Completed, stats.Skipped, stats.Failed, stats.TotalTasks)
		if stats.Failed > 0 {
			printWarn("some tasks failed; rerun the same command to retry only those")
			return errSyncFailures
		}
		return nil
	},
}

// errSyncFailures signals a non-zero Stats.Failed count, so the root
// command exits 1 even though the run itself completed without a
// fatal error. printWarn above already reported the detail.
var errSyncFailures = fmt.Errorf("one or more sync tasks failed")

// resolveSyncRange2 adapts the --date-range/--last-days flag pair to
// resolveSyncRange's (start, end string) shape.
func resolveSyncRange2(dateRange []string, lastDays int) (string, string, error) {
	if len(dateRange) > 0 {
		if len(dateRange) != 2 {
			return "", "", fmt.Errorf("--date-range takes exactly two comma-separated dates: START,END")
		}
		return resolveSyncRange(dateRange[0], dateRange[1], 0)
	}
	return resolveSyncRange("", "", lastDays)
}

func resolveSyncRange(start, end string, days int) (string, string, error) {
	if start != "" || end != "" {
		if start == "" || end == "" {
			return "", "", fmt.Errorf("both a start and end date must be given")
		}
		return start, end, nil
	}
	if days <= 0 {
		days = 1
	}
	now := time.Now().UTC()
	endDate := now.Format("2006-01-02")
	startDate := now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	return startDate, endDate, nil
}

func resolveKinds(only []string) ([]models.MetricKind, error) {
	if len(only) == 0 {
		return models.AllMetricKinds, nil
	}
	kinds := make([]models.MetricKind, 0, len(only))
	for _, name := range only {
		kind := models.MetricKind(name)
		if _, ok := metrics.Registry[kind]; !ok {
			return nil, fmt.Errorf("unknown metric kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// applyProgressMode swaps the engine's reporter per --progress: "log"
// (default) emits structured progress lines, "silent" suppresses them.
func applyProgressMode(mode string) error {
	switch mode {
	case "", "log":
		engine.SetReporter(reporter.NewLogReporter(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	case "silent":
		engine.SetReporter(reporter.NopReporter{})
	default:
		return fmt.Errorf("unknown --progress mode %q (want \"log\" or \"silent\")", mode)
	}
	return nil
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncDateRange, "date-range", nil, "explicit START,END dates (YYYY-MM-DD), mutually exclusive with --last-days")
	syncCmd.Flags().IntVar(&syncLastDays, "last-days", 1, "number of days to sync, ending today (ignored if --date-range given)")
	syncCmd.Flags().StringSliceVar(&syncMetrics, "metrics", nil, "comma-separated metric kinds to sync (default: all)")
	syncCmd.Flags().StringVar(&syncProgress, "progress", "log", "progress reporting mode: log or silent")
	rootCmd.AddCommand(syncCmd)
}
