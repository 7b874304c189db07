package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("VITALSYNC_DATA_DIR")
	os.Unsetenv("VITALSYNC_MAX_RETRIES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryExponentialBase != 2 {
		t.Errorf("RetryExponentialBase = %d, want 2", cfg.RetryExponentialBase)
	}
	if cfg.ActivitiesBatchSize != 50 {
		t.Errorf("ActivitiesBatchSize = %d, want 50", cfg.ActivitiesBatchSize)
	}
	if cfg.MaxSyncDays != 3650 {
		t.Errorf("MaxSyncDays = %d, want 3650", cfg.MaxSyncDays)
	}
	if cfg.SkipOnSkipped {
		t.Errorf("SkipOnSkipped = true, want false by default")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	cases := map[string]string{
		"":               "",
		"/abs/path":      "/abs/path",
		"~":              home,
		"~/data":         filepath.Join(home, "data"),
		"relative/path":  "relative/path",
	}
	for in, want := range cases {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDataDirDefault(t *testing.T) {
	os.Unsetenv("XDG_DATA_HOME")
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".local", "share", "vitalsync")
	if got := DefaultDataDir(); got != want {
		t.Errorf("DefaultDataDir() = %q, want %q", got, want)
	}
}

func TestDBAndTokenPaths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/vitalsync-test"}
	if got, want := cfg.DBPath(), "/tmp/vitalsync-test/vitalsync.db"; got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
	if got, want := cfg.TokenDir(), "/tmp/vitalsync-test"; got != want {
		t.Errorf("TokenDir() = %q, want %q", got, want)
	}
}
