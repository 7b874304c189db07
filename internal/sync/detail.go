package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arborhealth/vitalsync/internal/metrics"
	"github.com/arborhealth/vitalsync/internal/models"
)

// exerciseSetsEndpoint and splitsEndpoint are not per-date kinds, so
// they have no home in the metrics registry: they key off a single
// activity id rather than a (user, date) pair.
const (
	exerciseSetsEndpoint = "/activity-service/activity/%s/exerciseSets"
	splitsEndpoint       = "/activity-service/activity/%s/splits"
)

// syncActivityDetails fetches and stores the strength- or
// cardio-specific detail for one activity, then marks it
// details-synced. Any fetch/extract/store failure here is isolated:
// the parent activity row is already stored, and a detail failure must
// never roll that back or fail the enclosing date.
func (e *Engine) syncActivityDetails(ctx context.Context, a *models.Activity) error {
	if a.DetailsSynced {
		return nil
	}

	var detailErr error
	switch {
	case a.IsStrength():
		detailErr = e.syncStrengthDetails(ctx, a)
	case a.IsCardio():
		detailErr = e.syncCardioDetails(ctx, a)
	default:
		// No detail endpoint applies; still mark synced so this
		// activity is not retried by the backfill sweep forever.
	}
	if detailErr != nil {
		return detailErr
	}

	a.DetailsSynced = true
	if err := e.store.UpsertActivity(a); err != nil {
		return fmt.Errorf("mark details synced: %w", err)
	}
	return nil
}

func (e *Engine) syncStrengthDetails(ctx context.Context, a *models.Activity) error {
	path := fmt.Sprintf(exerciseSetsEndpoint, a.ActivityID)
	raw, err := e.api.ConnectAPI(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("fetch exercise sets: %w", err)
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-marshal exercise sets response: %w", err)
	}
	e.sleepRateLimit()

	sets, err := metrics.ParseExerciseSets(a.ActivityID, rawJSON)
	if err != nil {
		return fmt.Errorf("extract exercise sets: %w", err)
	}
	if len(sets) == 0 {
		return nil
	}
	for i := range sets {
		sets[i].UserID = a.UserID
	}
	if err := e.store.UpsertExerciseSets(a.UserID, a.ActivityID, sets); err != nil {
		return fmt.Errorf("store exercise sets: %w", err)
	}

	summary := models.CalculateStrengthSummary(sets)
	a.TotalSets = &summary.TotalSets
	a.TotalReps = &summary.TotalReps
	a.TotalWeightKg = &summary.TotalWeightKg
	return nil
}

func (e *Engine) syncCardioDetails(ctx context.Context, a *models.Activity) error {
	hasSplits, err := e.store.ActivityHasSplits(a.UserID, a.ActivityID)
	if err != nil {
		return fmt.Errorf("check existing splits: %w", err)
	}
	if hasSplits {
		return nil
	}

	path := fmt.Sprintf(splitsEndpoint, a.ActivityID)
	raw, err := e.api.ConnectAPI(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("fetch activity splits: %w", err)
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-marshal activity splits response: %w", err)
	}
	e.sleepRateLimit()

	splits, err := metrics.ParseActivitySplits(a.ActivityID, rawJSON)
	if err != nil {
		return fmt.Errorf("extract activity splits: %w", err)
	}
	if len(splits) == 0 {
		return nil
	}
	for i := range splits {
		splits[i].UserID = a.UserID
	}
	if err := e.store.UpsertActivitySplits(a.UserID, a.ActivityID, splits); err != nil {
		return fmt.Errorf("store activity splits: %w", err)
	}

	applySplitsSummary(a, splits)
	return nil
}

// applySplitsSummary fills distance/calories/elevation_gain from an
// aggregate of splits, but only where the activity doesn't already
// carry a value from the summary endpoint. Returns whether anything
// changed.
func applySplitsSummary(a *models.Activity, splits []models.ActivitySplit) bool {
	summary := models.CalculateSplitsSummary(splits)
	changed := false
	if a.DistanceMeters == nil && summary.TotalDistanceMeters > 0 {
		v := summary.TotalDistanceMeters
		a.DistanceMeters = &v
		changed = true
	}
	if a.Calories == nil && summary.TotalCalories > 0 {
		v := int64(summary.TotalCalories)
		a.Calories = &v
		changed = true
	}
	if a.ElevationGain == nil && summary.TotalElevationGain > 0 {
		v := summary.TotalElevationGain
		a.ElevationGain = &v
		changed = true
	}
	return changed
}

func (e *Engine) sleepRateLimit() {
	if e.cfg.RateLimitDelaySeconds > 0 {
		time.Sleep(time.Duration(e.cfg.RateLimitDelaySeconds * float64(time.Second)))
	}
}
