// Package config resolves vitalsync's on-disk data directory and the
// tuning knobs for the sync engine, HTTP client, and rate limiter.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the sync engine, transport, and storage layers
// need to run. Values come from the environment (VITALSYNC_* vars), with
// defaults matching the original sync tool's tuning.
type Config struct {
	// DataDir is the root directory for the SQLite database and token
	// store. Supports ~ expansion. Defaults to the XDG data directory.
	DataDir string `env:"VITALSYNC_DATA_DIR"`

	// MaxRetries is the number of retry attempts for a failed HTTP call.
	// No component reads it: the transport presets fix the retry count
	// at 3.
	MaxRetries int `env:"VITALSYNC_MAX_RETRIES" envDefault:"3"`

	// RetryExponentialBase is the base of the exponential backoff:
	// delay = backoffFactor * base^attempt. No component reads it: the
	// transport always uses base 2.
	RetryExponentialBase int `env:"VITALSYNC_RETRY_BASE" envDefault:"2"`

	// RateLimitDelaySeconds is paused after each activity detail fetch
	// (exercise sets, splits) and after the body-composition range call,
	// independent of the token-bucket limiter, matching the original
	// tool's conservative pacing. Activities list pages are not paused.
	RateLimitDelaySeconds float64 `env:"VITALSYNC_RATE_LIMIT_DELAY" envDefault:"0.5"`

	// ActivitiesBatchSize is the page size for the activities cursor.
	ActivitiesBatchSize int `env:"VITALSYNC_ACTIVITIES_BATCH_SIZE" envDefault:"50"`

	// MinTimeseriesFields is the minimum number of populated fields a
	// timeseries point needs before it is considered worth storing. No
	// component reads it: extractors drop only points with a null value.
	MinTimeseriesFields int `env:"VITALSYNC_MIN_TIMESERIES_FIELDS" envDefault:"2"`

	// MaxSyncDays bounds a single sync_range call to prevent an
	// accidental full-history sync from a typo'd date range.
	MaxSyncDays int `env:"VITALSYNC_MAX_SYNC_DAYS" envDefault:"3650"`

	// SkipOnSkipped additionally treats a SKIPPED ledger row as terminal
	// on rerun. Off by default: only COMPLETED rows are skipped, so a
	// metric that had no data last time is retried.
	SkipOnSkipped bool `env:"VITALSYNC_SKIP_ON_SKIPPED" envDefault:"false"`

	// RateLimitRPS and RateLimitBurst configure the token-bucket limiter
	// guarding every outbound API request.
	RateLimitRPS   float64 `env:"VITALSYNC_RATE_LIMIT_RPS" envDefault:"1.67"`
	RateLimitBurst int     `env:"VITALSYNC_RATE_LIMIT_BURST" envDefault:"10"`

	// Domain is the vendor cloud's base domain; requests go to
	// {subdomain}.{Domain}.
	Domain string `env:"VITALSYNC_DOMAIN" envDefault:"vendorconnect.example.com"`

	// OAuthConsumerKey/Secret are the mobile-app OAuth1 consumer
	// credentials used to redeem an SSO ticket. They are not per-user;
	// overriding them is only useful against a non-default vendor
	// deployment.
	OAuthConsumerKey    string `env:"VITALSYNC_OAUTH_CONSUMER_KEY" envDefault:"vitalsync-mobile-app"`
	OAuthConsumerSecret string `env:"VITALSYNC_OAUTH_CONSUMER_SECRET" envDefault:""`

	// RequestTimeoutSeconds and AuthTimeoutSeconds are the API and SSO
	// HTTP client timeouts. Only AuthTimeoutSeconds is applied (to the
	// login flow's client); the API client preset fixes its timeout at
	// 10 seconds.
	RequestTimeoutSeconds int `env:"VITALSYNC_REQUEST_TIMEOUT" envDefault:"10"`
	AuthTimeoutSeconds    int `env:"VITALSYNC_AUTH_TIMEOUT" envDefault:"15"`
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// DefaultDataDir returns $XDG_DATA_HOME/vitalsync, falling back to
// ~/.local/share/vitalsync.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "vitalsync")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DBPath returns the path to the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "vitalsync.db")
}

// TokenDir returns the directory holding the persisted oauth1_token.json
// and oauth2_token.json files.
func (c *Config) TokenDir() string {
	return c.GetDataDir()
}
