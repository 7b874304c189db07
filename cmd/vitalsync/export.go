// ABOUTME: CLI command for exporting synced health data.
// ABOUTME: Supports JSON, YAML, and Markdown rendering of a date range.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportStart  string
	exportEnd    string
)

var exportCmd = &cobra.Command{
	Use:       "export <format>",
	Short:     "Export synced health data",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	Long: `Export renders everything synced for a date range as JSON, YAML, or
Markdown.

FORMATS:

  json       Full JSON export (activities, daily health, body composition)
  yaml       Same data as YAML
  markdown   Human-readable tables

OPTIONS:

  --output, -o   Write to file instead of stdout
  --start        Start date (YYYY-MM-DD), default: 29 days ago (30 days including today)
  --end          End date (YYYY-MM-DD), default: today

EXAMPLES:

  vitalsync export json --user-id 123 -o backup.json
  vitalsync export markdown --user-id 123 --start 2026-01-01 --end 2026-01-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUserID()
		if err != nil {
			return err
		}

		start, end, err := resolveExportRange(exportStart, exportEnd)
		if err != nil {
			return err
		}

		format := args[0]
		var data []byte
		switch format {
		case "json":
			data, err = store.ExportJSON(userID, start, end)
		case "yaml":
			data, err = store.ExportYAML(userID, start, end)
		case "markdown":
			var md string
			md, err = store.ExportMarkdown(userID, start, end)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0o600); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			printOK("exported to %s", exportOutput)
			return nil
		}

		fmt.Println(string(data))
		return nil
	},
}

func resolveExportRange(start, end string) (string, string, error) {
	if start == "" && end == "" {
		now := time.Now().UTC()
		end = now.Format("2006-01-02")
		start = now.AddDate(0, 0, -29).Format("2006-01-02")
		return start, end, nil
	}
	if start == "" || end == "" {
		return "", "", fmt.Errorf("both --start and --end must be given, or neither")
	}
	return start, end, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "start date (YYYY-MM-DD), default: 29 days ago (30 days including today)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "end date (YYYY-MM-DD), default: today")
	rootCmd.AddCommand(exportCmd)
}
