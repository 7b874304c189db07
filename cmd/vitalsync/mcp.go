// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the local database for Claude/MCP clients.
package main

import (
	"github.com/spf13/cobra"

	"github.com/arborhealth/vitalsync/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the read-only MCP server",
	Long: `Start the Model Context Protocol server exposing synced health data
(activities, daily summaries, timeseries) as read-only tools and
resources for Claude and other MCP clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUserID()
		if err != nil {
			return err
		}

		server := mcpserver.NewServer(store, userID)
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
