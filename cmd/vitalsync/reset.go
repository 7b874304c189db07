// ABOUTME: CLI command for retrying previously failed sync units.
// ABOUTME: Resets every FAILED ledger row back to PENDING.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resetForce bool
	resetLogin bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset FAILED sync ledger rows to PENDING",
	Long: `Reset transitions every sync_status row in the FAILED state back to
PENDING for the given user, so the next 'vitalsync sync' retries them.
It never touches COMPLETED or SKIPPED rows, and never touches health
data already stored.

Pass --login to additionally discard stored OAuth tokens, forcing the
next command to prompt for login again.

Without --force you will be asked to confirm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUserID()
		if err != nil {
			return err
		}

		if !resetForce {
			fmt.Printf("This will reset all FAILED sync ledger rows for user %d to PENDING.\n", userID)
			if resetLogin {
				fmt.Println("It will also discard stored login tokens.")
			}
			fmt.Print("Type 'RESET' to confirm: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, _ := reader.ReadString('\n')
			if strings.TrimSpace(line) != "RESET" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		n, err := store.ResetFailedToPending(userID)
		if err != nil {
			return fmt.Errorf("reset failed to pending: %w", err)
		}
		printOK("reset %d failed row(s) to pending", n)

		if resetLogin {
			if err := authMgr.Logout(); err != nil {
				return fmt.Errorf("clear stored tokens: %w", err)
			}
			printOK("stored login tokens cleared")
		}

		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "skip the confirmation prompt")
	resetCmd.Flags().BoolVar(&resetLogin, "login", false, "also discard stored login tokens")
	rootCmd.AddCommand(resetCmd)
}
