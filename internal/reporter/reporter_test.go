package reporter

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogReporterEmitsProgress(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(slog.New(slog.NewTextHandler(&buf, nil)))

	r.StartSync(3)
	r.TaskComplete("daily_summary", "2026-01-01")
	r.TaskSkipped("sleep", "2026-01-01")
	r.TaskFailed("heart_rate", "2026-01-01", errBoom)
	r.EndSync()

	out := buf.String()
	for _, want := range []string{"sync started", "task complete", "task skipped", "task failed", "sync finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q, got:\n%s", want, out)
		}
	}
}

func TestNopReporterNeverPanics(t *testing.T) {
	var r NopReporter
	r.StartSync(10)
	r.TaskComplete("x", "2026-01-01")
	r.TaskSkipped("x", "2026-01-01")
	r.TaskFailed("x", "2026-01-01", errBoom)
	r.Info("info")
	r.Warning("warn")
	r.Error("err")
	r.EndSync()
}

var errBoom = fmtError("boom")

type fmtError string

func (e fmtError) Error() string { return string(e) }
