// Package sync implements the sync engine (C10) and detail sync (C11):
// date-range planning, the per-(user, date, kind) status ledger,
// idempotent extraction/storage, the activities pagination phase, and
// the body-composition range-call special case.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arborhealth/vitalsync/internal/apperrors"
	"github.com/arborhealth/vitalsync/internal/config"
	"github.com/arborhealth/vitalsync/internal/metrics"
	"github.com/arborhealth/vitalsync/internal/models"
	"github.com/arborhealth/vitalsync/internal/reporter"
	"github.com/arborhealth/vitalsync/internal/storage"
)

// APIClient is the subset of vendor.Client the engine depends on, kept
// narrow so tests can substitute a fake.
type APIClient interface {
	ConnectAPI(ctx context.Context, path string, query url.Values) (any, error)
}

// Engine orchestrates a sync_range run: fetch via api, extract via the
// metrics registry, store via store, report progress via report.
type Engine struct {
	api      APIClient
	store    storage.Repository
	registry map[models.MetricKind]metrics.Descriptor
	report   reporter.Reporter
	cfg      *config.Config
}

// New builds an Engine using metrics.Registry as its registry. report
// defaults to reporter.NopReporter{} when nil.
func New(api APIClient, store storage.Repository, cfg *config.Config, report reporter.Reporter) *Engine {
	if report == nil {
		report = reporter.NopReporter{}
	}
	return &Engine{api: api, store: store, registry: metrics.Registry, cfg: cfg, report: report}
}

// SetReporter swaps the progress reporter for a run already
// constructed, e.g. to honor a per-invocation --progress flag.
func (e *Engine) SetReporter(report reporter.Reporter) {
	if report == nil {
		report = reporter.NopReporter{}
	}
	e.report = report
}

// Stats summarizes one sync_range run.
type Stats struct {
	Completed  int
	Skipped    int
	Failed     int
	TotalTasks int
}

// ErrRangeTooLarge holds the message for a requested span exceeding
// cfg.MaxSyncDays. SyncRange fails fast before any I/O with a new
// *apperrors.SchemaValidation whose Msg starts with ErrRangeTooLarge.Msg
// and adds the day counts; it does not return ErrRangeTooLarge itself,
// so callers classify the failure with errors.As on SchemaValidation.
var ErrRangeTooLarge = &apperrors.SchemaValidation{Msg: "requested date range exceeds the configured maximum span"}

const dateLayout = "2006-01-02"

// ErrInterrupted is returned when ctx is canceled between units of
// work. The unit in flight when cancellation arrived always finishes
// and its ledger row is committed before this is returned: SyncRange
// checks ctx only between iterations, using an uncancelable context
// for the I/O itself, so a signal never truncates a write mid-flight.
var ErrInterrupted = fmt.Errorf("sync interrupted")

// SyncRange runs the full sync algorithm for userID over [startDate,
// endDate] inclusive, for the given metric kinds (AllMetricKinds plus
// Activities/BodyComposition if included). If ctx is canceled (e.g. by
// a signal), the unit of work in progress completes and its ledger
// row is committed, then SyncRange returns ErrInterrupted.
func (e *Engine) SyncRange(ctx context.Context, userID int64, startDate, endDate string, kinds []models.MetricKind) (Stats, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return Stats{}, &apperrors.SchemaValidation{Msg: fmt.Sprintf("invalid start date %q: %v", startDate, err)}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return Stats{}, &apperrors.SchemaValidation{Msg: fmt.Sprintf("invalid end date %q: %v", endDate, err)}
	}
	if end.Before(start) {
		return Stats{}, &apperrors.SchemaValidation{Msg: fmt.Sprintf("end date %s is before start date %s", endDate, startDate)}
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if e.cfg.MaxSyncDays > 0 && days > e.cfg.MaxSyncDays {
		return Stats{}, &apperrors.SchemaValidation{Msg: fmt.Sprintf("%s: %d days requested, max is %d", ErrRangeTooLarge.Msg, days, e.cfg.MaxSyncDays)}
	}

	perDateKinds, hasActivities, hasBodyComposition := partitionKinds(kinds)
	dates := dateRange(start, end)

	total := days*len(perDateKinds) + boolToInt(hasActivities)*days + boolToInt(hasBodyComposition)
	e.report.StartSync(total)

	var stats Stats
	stats.TotalTasks = total

	for _, d := range dates {
		for _, k := range perDateKinds {
			if err := e.store.CreateSyncStatus(userID, d, k); err != nil {
				return stats, &apperrors.StoreError{Msg: fmt.Sprintf("create sync status for %s/%s", d, k), Err: err}
			}
		}
	}

	ioCtx := context.WithoutCancel(ctx)

	for _, d := range dates {
		for _, k := range perDateKinds {
			if err := ctx.Err(); err != nil {
				return stats, ErrInterrupted
			}
			if err := e.syncOneDateKind(ioCtx, userID, d, k, &stats); err != nil {
				return stats, err
			}
		}
	}

	if hasActivities {
		if err := ctx.Err(); err != nil {
			return stats, ErrInterrupted
		}
		if err := e.syncActivitiesPhase(ioCtx, userID, dates, &stats); err != nil {
			return stats, err
		}
	}

	if hasBodyComposition {
		if err := ctx.Err(); err != nil {
			return stats, ErrInterrupted
		}
		if err := e.syncBodyCompositionPhase(ioCtx, userID, startDate, endDate, &stats); err != nil {
			if isAuthError(err) {
				return stats, err
			}
			e.report.Warning(fmt.Sprintf("body composition sync failed: %v", err))
		}
	}

	e.report.EndSync()
	return stats, nil
}

func partitionKinds(kinds []models.MetricKind) (perDate []models.MetricKind, hasActivities, hasBodyComposition bool) {
	for _, k := range kinds {
		switch k {
		case models.KindActivities:
			hasActivities = true
		case models.KindBodyComposition:
			hasBodyComposition = true
		default:
			perDate = append(perDate, k)
		}
	}
	return perDate, hasActivities, hasBodyComposition
}

func dateRange(start, end time.Time) []string {
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(dateLayout))
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// syncOneDateKind is one unit of the per-date metrics phase: fetch,
// extract, store, ledger-update. A failing fetch/parse/store is
// isolated to this unit and recorded FAILED; an auth failure aborts
// the whole run instead, since every subsequent call would fail too.
func (e *Engine) syncOneDateKind(ctx context.Context, userID int64, date string, kind models.MetricKind, stats *Stats) error {
	status, err := e.store.GetSyncStatus(userID, date, kind)
	if err != nil {
		e.report.TaskFailed(string(kind), date, err)
		stats.Failed++
		return nil
	}
	if status != nil && status.State.IsTerminal(e.cfg.SkipOnSkipped) {
		e.report.TaskSkipped(string(kind), date)
		stats.Skipped++
		return nil
	}

	stored, err := e.fetchExtractStore(ctx, userID, date, kind)
	if err != nil {
		if isAuthError(err) {
			return err
		}
		_ = e.store.UpdateSyncStatus(userID, date, kind, models.StateFailed, err.Error())
		e.report.TaskFailed(string(kind), date, err)
		stats.Failed++
		return nil
	}
	if stored {
		_ = e.store.UpdateSyncStatus(userID, date, kind, models.StateCompleted, "")
		e.report.TaskComplete(string(kind), date)
		stats.Completed++
		return nil
	}
	_ = e.store.UpdateSyncStatus(userID, date, kind, models.StateSkipped, "")
	e.report.TaskSkipped(string(kind), date)
	stats.Skipped++
	return nil
}

// isAuthError reports whether err is (or wraps) an apperrors.AuthError,
// the one failure kind the sync loop never isolates per-unit.
func isAuthError(err error) bool {
	var authErr *apperrors.AuthError
	return errors.As(err, &authErr)
}

// fetchExtractStore performs the fetch->extract->store sequence for one
// (date, kind), reporting whether anything was actually written.
func (e *Engine) fetchExtractStore(ctx context.Context, userID int64, date string, kind models.MetricKind) (bool, error) {
	desc, ok := e.registry[kind]
	if !ok || desc.Parse == nil {
		return false, fmt.Errorf("no registry descriptor for kind %q", kind)
	}

	raw, err := e.fetchDescriptor(ctx, userID, date, desc)
	if err != nil {
		return false, err
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return false, fmt.Errorf("re-marshal %s response: %w", kind, err)
	}

	reading, err := desc.Parse(rawJSON)
	if err != nil {
		return false, fmt.Errorf("extract %s: %w", kind, err)
	}

	stored := false

	if reading.Summary != nil && !reading.Summary.IsEmpty() {
		reading.Summary.UserID = userID
		reading.Summary.Date = date
		if err := e.store.UpsertDailyHealth(reading.Summary); err != nil {
			return false, fmt.Errorf("upsert daily health: %w", err)
		}
		stored = true
	}

	if len(reading.Points) > 0 {
		for i := range reading.Points {
			reading.Points[i].UserID = userID
		}
		if err := e.store.StoreTimeseriesBatch(userID, kind, reading.Points); err != nil {
			return stored, fmt.Errorf("store timeseries: %w", err)
		}
		stored = true
	}

	return stored, nil
}

// fetchDescriptor builds the endpoint from desc's template and calls
// the API client.
func (e *Engine) fetchDescriptor(ctx context.Context, userID int64, date string, desc metrics.Descriptor) (any, error) {
	path := desc.EndpointTemplate
	path = strings.ReplaceAll(path, "{date}", date)
	if desc.RequiresUserID {
		path = strings.ReplaceAll(path, "{user_id}", strconv.FormatInt(userID, 10))
	}
	return e.api.ConnectAPI(ctx, path, nil)
}
