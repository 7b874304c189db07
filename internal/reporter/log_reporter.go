package reporter

import (
	"fmt"
	"log/slog"
	"time"
)

// LogReporter renders sync events as structured log lines. It is the
// CLI's default: a silent sync is a poor experience for a long-running
// multi-year backfill, so something must narrate progress even without
// a terminal UI in scope.
type LogReporter struct {
	log     *slog.Logger
	total   int
	done    int
	started time.Time
}

// NewLogReporter builds a LogReporter writing through log.
func NewLogReporter(log *slog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) StartSync(total int) {
	r.total = total
	r.done = 0
	r.started = time.Now()
	r.log.Info("sync started", "total_tasks", total)
}

func (r *LogReporter) TaskComplete(name, date string) {
	r.done++
	r.log.Info("task complete", "metric", name, "date", date, "progress", r.progress())
}

func (r *LogReporter) TaskSkipped(name, date string) {
	r.done++
	r.log.Info("task skipped", "metric", name, "date", date, "progress", r.progress())
}

func (r *LogReporter) TaskFailed(name, date string, err error) {
	r.done++
	r.log.Warn("task failed", "metric", name, "date", date, "error", err, "progress", r.progress())
}

func (r *LogReporter) Info(msg string)    { r.log.Info(msg) }
func (r *LogReporter) Warning(msg string) { r.log.Warn(msg) }
func (r *LogReporter) Error(msg string)   { r.log.Error(msg) }

func (r *LogReporter) EndSync() {
	r.log.Info("sync finished", "elapsed", time.Since(r.started).Round(time.Second).String())
}

func (r *LogReporter) progress() string {
	return fmt.Sprintf("%d/%d", r.done, r.total)
}
