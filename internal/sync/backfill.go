package sync

import (
	"context"
	"fmt"
)

// BackfillActivityDetails sweeps up to limit activities (0 = no limit)
// still missing strength/cardio detail, newest first. Detail-fetch
// failures on individual activities are reported but never abort the
// sweep.
func (e *Engine) BackfillActivityDetails(ctx context.Context, userID int64, limit int) (completed, failed int, err error) {
	pending, err := e.store.ActivitiesMissingDetails(userID, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("backfill activity details: %w", err)
	}
	for _, a := range pending {
		if err := e.syncActivityDetails(ctx, a); err != nil {
			e.report.Warning(fmt.Sprintf("backfill details for activity %s: %v", a.ActivityID, err))
			failed++
			continue
		}
		completed++
	}
	return completed, failed, nil
}

// BackfillActivitySplits sweeps up to limit cardio activities (0 = no
// limit) that have no stored splits yet, newest first.
func (e *Engine) BackfillActivitySplits(ctx context.Context, userID int64, limit int) (completed, failed int, err error) {
	pending, err := e.store.CardioActivitiesMissingSplits(userID, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("backfill activity splits: %w", err)
	}
	for _, a := range pending {
		if err := e.syncCardioDetails(ctx, a); err != nil {
			e.report.Warning(fmt.Sprintf("backfill splits for activity %s: %v", a.ActivityID, err))
			failed++
			continue
		}
		if err := e.store.UpsertActivity(a); err != nil {
			e.report.Warning(fmt.Sprintf("store backfilled activity %s: %v", a.ActivityID, err))
			failed++
			continue
		}
		completed++
	}
	return completed, failed, nil
}

// BackfillActivityDistanceFromSplits recomputes distance/calories/
// elevation for activities that already have splits on disk but a
// null distance_meters, typically because detail sync ran before this
// aggregation existed. It does not re-fetch from the vendor.
func (e *Engine) BackfillActivityDistanceFromSplits(ctx context.Context, userID int64) (updated int, err error) {
	pending, err := e.store.ActivitiesMissingDistance(userID)
	if err != nil {
		return 0, fmt.Errorf("backfill activity distance: %w", err)
	}
	for _, a := range pending {
		splits, err := e.store.GetActivitySplits(userID, a.ActivityID)
		if err != nil {
			e.report.Warning(fmt.Sprintf("load splits for activity %s: %v", a.ActivityID, err))
			continue
		}
		if len(splits) == 0 {
			continue
		}
		if !applySplitsSummary(a, splits) {
			continue
		}
		if err := e.store.UpsertActivity(a); err != nil {
			e.report.Warning(fmt.Sprintf("store backfilled distance for activity %s: %v", a.ActivityID, err))
			continue
		}
		updated++
	}
	return updated, nil
}
