// ABOUTME: Root Cobra command for the vitalsync CLI.
// ABOUTME: Wires config, storage, and the authenticated API client for subcommands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/arborhealth/vitalsync/internal/auth"
	"github.com/arborhealth/vitalsync/internal/config"
	"github.com/arborhealth/vitalsync/internal/reporter"
	"github.com/arborhealth/vitalsync/internal/storage"
	"github.com/arborhealth/vitalsync/internal/sync"
	"github.com/arborhealth/vitalsync/internal/transport"
	"github.com/arborhealth/vitalsync/internal/vendor"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	store      *storage.DB
	authMgr    *auth.Manager
	loginFlow  *auth.LoginFlow
	apiClient  *vendor.Client
	engine     *sync.Engine
	userIDFlag int64
	dbPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vitalsync",
	Short: "Sync wearable health data into a local database",
	Long: `vitalsync pulls daily health metrics, activities, and body composition
from a wearable vendor's cloud API into a local SQLite database.

QUICK START:

  $ vitalsync login                              # Authenticate with email/password
  $ vitalsync sync --user-id 123 --last-days 7   # Sync the last 7 days
  $ vitalsync status --user-id 123               # Show ledger state counts

DATA STORAGE:

  Tokens and the SQLite database live under $XDG_DATA_HOME/vitalsync by
  default. Override the data directory with VITALSYNC_DATA_DIR, or the
  database path alone with --db-path.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		dbPath := cfg.DBPath()
		if dbPathFlag != "" {
			dbPath = dbPathFlag
		}
		store, err = storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		tokenStore := auth.NewStore(cfg.TokenDir())
		authMgr, err = auth.NewManager(tokenStore)
		if err != nil {
			return fmt.Errorf("load tokens: %w", err)
		}

		authHTTP := &http.Client{Timeout: time.Duration(cfg.AuthTimeoutSeconds) * time.Second}
		loginFlow = auth.NewLoginFlow(authHTTP, cfg.Domain, cfg.OAuthConsumerKey, cfg.OAuthConsumerSecret)

		apiHTTP := transport.NewAPIClient(cfg.RateLimitRPS, cfg.RateLimitBurst)
		apiClient = vendor.New(apiHTTP, authMgr, loginFlow, cfg.Domain)

		log := slog.New(slog.NewTextHandler(os.Stderr, nil))
		engine = sync.New(apiClient, store, cfg, reporter.NewLogReporter(log))

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&userIDFlag, "user-id", 0, "vendor account user id")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "path to the SQLite database file (default: under the data directory)")
}

// Execute runs the root command against ctx, which the sync engine
// observes between units of work: on cancellation, the current
// (date, kind) finishes and is committed before the run exits, so
// no partial write is ever lost.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func requireUserID() (int64, error) {
	if userIDFlag == 0 {
		return 0, fmt.Errorf("--user-id is required")
	}
	return userIDFlag, nil
}

func printOK(format string, args ...any) {
	color.Green("✓ "+format, args...)
}

func printWarn(format string, args ...any) {
	color.Yellow("⚠ "+format, args...)
}
