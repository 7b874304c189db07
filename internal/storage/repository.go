// ABOUTME: Repository interface for the local health data store.
// ABOUTME: Defines the sync engine's upsert, ledger, and query contract.
package storage

import "github.com/arborhealth/vitalsync/internal/models"

// Repository is the storage contract the sync engine depends on. DB is
// the only production implementation; tests may substitute a fake.
type Repository interface {
	// Upserts. UpsertDailyHealth merges non-null fields onto any
	// existing (user_id, date) row; the rest merge on their composite
	// keys, re-inserting idempotently.
	UpsertDailyHealth(row *models.DailyHealthRow) error
	UpsertActivity(a *models.Activity) error
	UpsertExerciseSets(userID int64, activityID string, sets []models.ExerciseSet) error
	UpsertActivitySplits(userID int64, activityID string, splits []models.ActivitySplit) error
	UpsertBodyComposition(userID int64, entries []models.BodyCompositionEntry) (stored int, skipped int, err error)
	StoreTimeseriesBatch(userID int64, kind models.MetricKind, points []models.TimeSeriesPoint) error

	// Status ledger.
	CreateSyncStatus(userID int64, date string, kind models.MetricKind) error
	UpdateSyncStatus(userID int64, date string, kind models.MetricKind, state models.SyncState, errMsg string) error
	GetSyncStatus(userID int64, date string, kind models.MetricKind) (*models.SyncStatus, error)
	SyncStatusExists(userID int64, date string, kind models.MetricKind) (bool, error)
	GetPendingMetrics(userID int64, date string) ([]models.MetricKind, error)
	ResetFailedToPending(userID int64) (int, error)
	CountSyncStatusByState(userID int64) (map[models.SyncState]int, error)
	RecentFailed(userID int64, limit int) ([]models.SyncStatus, error)

	// Existence probes.
	ActivityExists(userID int64, activityID string) (bool, error)
	HealthMetricExists(userID int64, date string) (bool, error)
	BodyCompositionExists(userID int64, samplePK string) (bool, error)
	ActivityHasSplits(userID int64, activityID string) (bool, error)

	// Query surface, for tests, CLI status/export, and the MCP server.
	GetHealthMetrics(userID int64, start, end string) ([]*models.DailyHealthRow, error)
	GetActivities(userID int64, start, end string, name *string) ([]*models.Activity, error)
	GetTimeseries(userID int64, kind models.MetricKind, startMS, endMS int64) ([]models.TimeSeriesPoint, error)
	GetExerciseSets(userID int64, activityID string) ([]models.ExerciseSet, error)
	GetActivitySplits(userID int64, activityID string) ([]models.ActivitySplit, error)

	// Backfill support.
	ActivitiesMissingDetails(userID int64, limit int) ([]*models.Activity, error)
	CardioActivitiesMissingSplits(userID int64, limit int) ([]*models.Activity, error)
	ActivitiesMissingDistance(userID int64) ([]*models.Activity, error)

	ValidateSchema() error
	Close() error
}
