package storage

import (
	"path/filepath"
	"testing"

	"github.com/arborhealth/vitalsync/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "vitalsync_test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptrI64(v int64) *int64     { return &v }
func ptrF64(v float64) *float64 { return &v }
func ptrStr(v string) *string   { return &v }

func TestValidateSchemaPassesOnFreshDB(t *testing.T) {
	db := newTestDB(t)
	if err := db.ValidateSchema(); err != nil {
		t.Errorf("ValidateSchema() error: %v", err)
	}
}

func TestUpsertDailyHealthMergesNonNull(t *testing.T) {
	db := newTestDB(t)

	first := &models.DailyHealthRow{UserID: 1, Date: "2026-01-01", TotalSteps: ptrI64(8000)}
	if err := db.UpsertDailyHealth(first); err != nil {
		t.Fatalf("UpsertDailyHealth() error: %v", err)
	}

	second := &models.DailyHealthRow{UserID: 1, Date: "2026-01-01", RestingHeartRate: ptrI64(55)}
	if err := db.UpsertDailyHealth(second); err != nil {
		t.Fatalf("UpsertDailyHealth() error: %v", err)
	}

	rows, err := db.GetHealthMetrics(1, "2026-01-01", "2026-01-01")
	if err != nil {
		t.Fatalf("GetHealthMetrics() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].TotalSteps == nil || *rows[0].TotalSteps != 8000 {
		t.Errorf("TotalSteps = %v, want 8000 (should survive the second merge)", rows[0].TotalSteps)
	}
	if rows[0].RestingHeartRate == nil || *rows[0].RestingHeartRate != 55 {
		t.Errorf("RestingHeartRate = %v, want 55", rows[0].RestingHeartRate)
	}
}

func TestUpsertActivityAndDetailsSyncedNeverReverts(t *testing.T) {
	db := newTestDB(t)

	a := &models.Activity{UserID: 1, ActivityID: "act1", ActivityDate: "2026-01-01", ActivityType: ptrStr("running")}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity() error: %v", err)
	}

	a.DetailsSynced = true
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity() error: %v", err)
	}

	stale := &models.Activity{UserID: 1, ActivityID: "act1", ActivityDate: "2026-01-01"}
	if err := db.UpsertActivity(stale); err != nil {
		t.Fatalf("UpsertActivity() error: %v", err)
	}

	exists, err := db.ActivityExists(1, "act1")
	if err != nil || !exists {
		t.Fatalf("ActivityExists() = %v, %v, want true, nil", exists, err)
	}

	got, err := db.GetActivities(1, "2026-01-01", "2026-01-01", nil)
	if err != nil {
		t.Fatalf("GetActivities() error: %v", err)
	}
	if len(got) != 1 || !got[0].DetailsSynced {
		t.Errorf("got %+v, want one activity with DetailsSynced=true", got)
	}
}

func TestSyncStatusLifecycle(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSyncStatus(1, "2026-01-01", models.KindDailySummary); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}
	// Re-creating is a no-op: it must not clobber a later state transition.
	if err := db.UpdateSyncStatus(1, "2026-01-01", models.KindDailySummary, models.StateCompleted, ""); err != nil {
		t.Fatalf("UpdateSyncStatus() error: %v", err)
	}
	if err := db.CreateSyncStatus(1, "2026-01-01", models.KindDailySummary); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}

	status, err := db.GetSyncStatus(1, "2026-01-01", models.KindDailySummary)
	if err != nil {
		t.Fatalf("GetSyncStatus() error: %v", err)
	}
	if status == nil || status.State != models.StateCompleted {
		t.Fatalf("status = %+v, want state=completed", status)
	}

	if err := db.CreateSyncStatus(1, "2026-01-02", models.KindSleep); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}
	pending, err := db.GetPendingMetrics(1, "2026-01-02")
	if err != nil {
		t.Fatalf("GetPendingMetrics() error: %v", err)
	}
	if len(pending) != 1 || pending[0] != models.KindSleep {
		t.Errorf("pending = %v, want [sleep]", pending)
	}
}

func TestResetFailedToPendingOnlyTouchesFailedRows(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSyncStatus(1, "2026-01-01", models.KindDailySummary); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}
	if err := db.UpdateSyncStatus(1, "2026-01-01", models.KindDailySummary, models.StateFailed, "boom"); err != nil {
		t.Fatalf("UpdateSyncStatus() error: %v", err)
	}
	if err := db.CreateSyncStatus(1, "2026-01-02", models.KindSleep); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}
	if err := db.UpdateSyncStatus(1, "2026-01-02", models.KindSleep, models.StateCompleted, ""); err != nil {
		t.Fatalf("UpdateSyncStatus() error: %v", err)
	}

	n, err := db.ResetFailedToPending(1)
	if err != nil {
		t.Fatalf("ResetFailedToPending() error: %v", err)
	}
	if n != 1 {
		t.Errorf("ResetFailedToPending() = %d, want 1", n)
	}

	failed, err := db.GetSyncStatus(1, "2026-01-01", models.KindDailySummary)
	if err != nil {
		t.Fatalf("GetSyncStatus() error: %v", err)
	}
	if failed == nil || failed.State != models.StatePending || failed.ErrorMessage != nil {
		t.Errorf("got %+v, want state=pending, error_message=nil", failed)
	}

	completed, err := db.GetSyncStatus(1, "2026-01-02", models.KindSleep)
	if err != nil {
		t.Fatalf("GetSyncStatus() error: %v", err)
	}
	if completed == nil || completed.State != models.StateCompleted {
		t.Errorf("got %+v, want state=completed (untouched)", completed)
	}
}

func TestCountSyncStatusByStateAndRecentFailed(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSyncStatus(1, "2026-01-01", models.KindDailySummary); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}
	if err := db.UpdateSyncStatus(1, "2026-01-01", models.KindDailySummary, models.StateFailed, "fetch timed out"); err != nil {
		t.Fatalf("UpdateSyncStatus() error: %v", err)
	}
	if err := db.CreateSyncStatus(1, "2026-01-02", models.KindSleep); err != nil {
		t.Fatalf("CreateSyncStatus() error: %v", err)
	}
	if err := db.UpdateSyncStatus(1, "2026-01-02", models.KindSleep, models.StateCompleted, ""); err != nil {
		t.Fatalf("UpdateSyncStatus() error: %v", err)
	}

	counts, err := db.CountSyncStatusByState(1)
	if err != nil {
		t.Fatalf("CountSyncStatusByState() error: %v", err)
	}
	if counts[models.StateFailed] != 1 || counts[models.StateCompleted] != 1 {
		t.Errorf("counts = %+v, want 1 failed, 1 completed", counts)
	}

	failed, err := db.RecentFailed(1, 10)
	if err != nil {
		t.Fatalf("RecentFailed() error: %v", err)
	}
	if len(failed) != 1 || failed[0].MetricKind != models.KindDailySummary {
		t.Fatalf("failed = %+v, want one daily_summary row", failed)
	}
	if failed[0].ErrorMessage == nil || *failed[0].ErrorMessage != "fetch timed out" {
		t.Errorf("ErrorMessage = %v, want \"fetch timed out\"", failed[0].ErrorMessage)
	}
}

func TestStoreTimeseriesBatchMergesOnCompositeKey(t *testing.T) {
	db := newTestDB(t)

	points := []models.TimeSeriesPoint{
		{UserID: 1, Kind: models.KindHeartRate, TimestampMS: 1000, Value: 60},
		{UserID: 1, Kind: models.KindHeartRate, TimestampMS: 2000, Value: 65},
	}
	if err := db.StoreTimeseriesBatch(1, models.KindHeartRate, points); err != nil {
		t.Fatalf("StoreTimeseriesBatch() error: %v", err)
	}

	updated := []models.TimeSeriesPoint{
		{UserID: 1, Kind: models.KindHeartRate, TimestampMS: 1000, Value: 62},
	}
	if err := db.StoreTimeseriesBatch(1, models.KindHeartRate, updated); err != nil {
		t.Fatalf("StoreTimeseriesBatch() error: %v", err)
	}

	got, err := db.GetTimeseries(1, models.KindHeartRate, 0, 3000)
	if err != nil {
		t.Fatalf("GetTimeseries() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Value != 62 {
		t.Errorf("got[0].Value = %v, want 62 (updated)", got[0].Value)
	}
}

func TestUpsertBodyCompositionSkipsExisting(t *testing.T) {
	db := newTestDB(t)

	entries := []models.BodyCompositionEntry{
		{UserID: 1, SamplePK: "abc", MeasurementDate: "2026-01-01", WeightGrams: ptrF64(70000)},
	}
	stored, skipped, err := db.UpsertBodyComposition(1, entries)
	if err != nil {
		t.Fatalf("UpsertBodyComposition() error: %v", err)
	}
	if stored != 1 || skipped != 0 {
		t.Errorf("stored = %d, skipped = %d, want 1, 0", stored, skipped)
	}

	stored, skipped, err = db.UpsertBodyComposition(1, entries)
	if err != nil {
		t.Fatalf("UpsertBodyComposition() error: %v", err)
	}
	if stored != 0 || skipped != 1 {
		t.Errorf("stored = %d, skipped = %d, want 0, 1 (already stored)", stored, skipped)
	}
}

func TestExerciseSetsAndSplitsRoundTrip(t *testing.T) {
	db := newTestDB(t)

	if err := db.UpsertActivity(&models.Activity{UserID: 1, ActivityID: "act1", ActivityDate: "2026-01-01"}); err != nil {
		t.Fatalf("UpsertActivity() error: %v", err)
	}

	sets := []models.ExerciseSet{
		{UserID: 1, ActivityID: "act1", SetOrder: 0, SetType: ptrStr("ACTIVE"), RepetitionCount: ptrI64(10), WeightGrams: ptrF64(50000)},
	}
	if err := db.UpsertExerciseSets(1, "act1", sets); err != nil {
		t.Fatalf("UpsertExerciseSets() error: %v", err)
	}
	got, err := db.GetExerciseSets(1, "act1")
	if err != nil {
		t.Fatalf("GetExerciseSets() error: %v", err)
	}
	if len(got) != 1 || got[0].RepetitionCount == nil || *got[0].RepetitionCount != 10 {
		t.Errorf("got = %+v", got)
	}

	splits := []models.ActivitySplit{
		{UserID: 1, ActivityID: "act1", LapIndex: 1, IntensityType: ptrStr("ACTIVE"), DistanceMeters: ptrF64(1000)},
	}
	if err := db.UpsertActivitySplits(1, "act1", splits); err != nil {
		t.Fatalf("UpsertActivitySplits() error: %v", err)
	}
	has, err := db.ActivityHasSplits(1, "act1")
	if err != nil || !has {
		t.Fatalf("ActivityHasSplits() = %v, %v, want true, nil", has, err)
	}
}
