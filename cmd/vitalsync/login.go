// ABOUTME: CLI command for authenticating against the vendor SSO flow.
// ABOUTME: Prompts for email/password and, if challenged, an MFA code.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arborhealth/vitalsync/internal/auth"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the vendor and store tokens",
	Long: `Login runs the vendor's email/password SSO flow, prompting for an
MFA code if the account requires one, and persists the resulting OAuth
tokens for subsequent sync/status/reset commands.

Example:
  $ vitalsync login --email you@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			email = trimNewline(line)
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		promptMFA := func() (string, error) {
			fmt.Print("Enter the verification code sent to your device: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", err
			}
			return trimNewline(line), nil
		}

		outcome := loginFlow.Login(cmd.Context(), email, password, false, promptMFA)
		switch outcome.Kind {
		case auth.OutcomeSuccess:
			if err := authMgr.SetTokens(outcome.Tokens); err != nil {
				return fmt.Errorf("store tokens: %w", err)
			}
			printOK("logged in as %s", email)
			return nil
		default:
			return fmt.Errorf("login failed: %w", outcome.Err)
		}
	},
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return trimNewline(line), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}
