package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arborhealth/vitalsync/internal/activities"
	"github.com/arborhealth/vitalsync/internal/metrics"
	"github.com/arborhealth/vitalsync/internal/models"
)

// apiFetcher adapts the engine's APIClient to activities.Fetcher,
// paging the vendor's newest-first activities list.
type apiFetcher struct {
	api APIClient
}

func (f *apiFetcher) FetchBatch(ctx context.Context, offset, limit int) ([]models.Activity, error) {
	path := fmt.Sprintf("/activitylist-service/activities/search/activities?start=%d&limit=%d", offset, limit)
	raw, err := f.api.ConnectAPI(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]models.Activity, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		a := metrics.ExtractActivity(entry)
		if a.ActivityID == "" {
			continue
		}
		a.ActivityDate = activityDate(a)
		out = append(out, *a)
	}
	return out, nil
}

func activityDate(a *models.Activity) string {
	if a.StartTime != nil && len(*a.StartTime) >= 10 {
		return (*a.StartTime)[:10]
	}
	return ""
}

// syncActivitiesPhase walks the activities list newest->oldest, one
// date at a time, storing summaries and (lazily) details. It reports
// one task per date, not per activity.
func (e *Engine) syncActivitiesPhase(ctx context.Context, userID int64, datesOldestFirst []string, stats *Stats) error {
	cursor := activities.NewCursor(&apiFetcher{api: e.api}, e.cfg.ActivitiesBatchSize)
	if err := cursor.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize activities cursor: %w", err)
	}

	for i := len(datesOldestFirst) - 1; i >= 0; i-- {
		date := datesOldestFirst[i]
		if err := e.syncActivitiesForDate(ctx, cursor, userID, date, stats); err != nil {
			return err
		}
	}
	return nil
}

// syncActivitiesForDate stores one date's activities. It returns an
// error only for an auth failure, which aborts the whole sync_range
// call; any other failure is isolated to this date's ledger row.
func (e *Engine) syncActivitiesForDate(ctx context.Context, cursor *activities.Cursor, userID int64, date string, stats *Stats) error {
	status, err := e.store.GetSyncStatus(userID, date, models.KindActivities)
	if err == nil && status != nil && status.State.IsTerminal(e.cfg.SkipOnSkipped) {
		e.report.TaskSkipped(string(models.KindActivities), date)
		stats.Skipped++
		return nil
	}

	dayActivities, err := cursor.ActivitiesForDate(ctx, date)
	if err != nil {
		if isAuthError(err) {
			return err
		}
		_ = e.store.UpdateSyncStatus(userID, date, models.KindActivities, models.StateFailed, err.Error())
		e.report.TaskFailed(string(models.KindActivities), date, err)
		stats.Failed++
		return nil
	}

	if len(dayActivities) == 0 {
		_ = e.store.UpdateSyncStatus(userID, date, models.KindActivities, models.StateSkipped, "")
		e.report.TaskSkipped(string(models.KindActivities), date)
		stats.Skipped++
		return nil
	}

	var lastErr error
	for i := range dayActivities {
		a := dayActivities[i]
		a.UserID = userID

		exists, err := e.store.ActivityExists(userID, a.ActivityID)
		if err != nil {
			if isAuthError(err) {
				return err
			}
			lastErr = err
			e.report.Warning(fmt.Sprintf("check activity %s exists: %v", a.ActivityID, err))
			continue
		}
		if exists {
			stats.Skipped++
			continue
		}

		if err := e.store.UpsertActivity(&a); err != nil {
			if isAuthError(err) {
				return err
			}
			lastErr = err
			e.report.Warning(fmt.Sprintf("store activity %s: %v", a.ActivityID, err))
			continue
		}
		if err := e.syncActivityDetails(ctx, &a); err != nil {
			if isAuthError(err) {
				return err
			}
			e.report.Warning(fmt.Sprintf("detail sync for activity %s: %v", a.ActivityID, err))
		}
		stats.Completed++
	}

	if lastErr != nil {
		_ = e.store.UpdateSyncStatus(userID, date, models.KindActivities, models.StateFailed, lastErr.Error())
		e.report.TaskFailed(string(models.KindActivities), date, lastErr)
		return nil
	}

	_ = e.store.UpdateSyncStatus(userID, date, models.KindActivities, models.StateCompleted, "")
	e.report.TaskComplete(string(models.KindActivities), date)
	return nil
}

// syncBodyCompositionPhase makes the one range-mode call the vendor
// exposes for weigh-ins, storing any entries not already on disk.
// Every newly stored entry counts toward stats.Completed, every entry
// the range call returned but that already existed counts toward
// stats.Skipped.
func (e *Engine) syncBodyCompositionPhase(ctx context.Context, userID int64, startDate, endDate string, stats *Stats) error {
	desc := metrics.Registry[models.KindBodyComposition]
	path := strings.ReplaceAll(desc.EndpointTemplate, "{start_date}", startDate)
	path = strings.ReplaceAll(path, "{end_date}", endDate)

	raw, err := e.api.ConnectAPI(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("fetch body composition range: %w", err)
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-marshal body composition response: %w", err)
	}
	reading, err := desc.Parse(rawJSON)
	if err != nil {
		return fmt.Errorf("extract body composition: %w", err)
	}

	entries := reading.BodyComp
	for i := range entries {
		entries[i].UserID = userID
	}
	stored, skipped, err := e.store.UpsertBodyComposition(userID, entries)
	if err != nil {
		return fmt.Errorf("store body composition: %w", err)
	}
	stats.Completed += stored
	stats.Skipped += skipped

	if e.cfg.RateLimitDelaySeconds > 0 {
		time.Sleep(time.Duration(e.cfg.RateLimitDelaySeconds * float64(time.Second)))
	}
	return nil
}
