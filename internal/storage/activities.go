// ABOUTME: activities, exercise_sets, and activity_splits CRUD.
// ABOUTME: Activities merge on (user_id, activity_id); details insert idempotently.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arborhealth/vitalsync/internal/models"
)

const activitiesSelectCols = `
	SELECT user_id, activity_id, activity_date, activity_name, activity_type,
		duration_seconds, avg_heart_rate, max_heart_rate, training_load, start_time,
		distance_meters, calories, elevation_gain, elevation_loss, avg_speed, max_speed,
		avg_power, max_power, total_sets, total_reps, total_weight_kg, details_synced,
		created_at, updated_at
	`

func scanActivity(row scanner) (*models.Activity, error) {
	var a models.Activity
	var detailsSynced int
	var createdAt, updatedAt string
	err := row.Scan(
		&a.UserID, &a.ActivityID, &a.ActivityDate, &a.ActivityName, &a.ActivityType,
		&a.DurationSeconds, &a.AvgHeartRate, &a.MaxHeartRate, &a.TrainingLoad, &a.StartTime,
		&a.DistanceMeters, &a.Calories, &a.ElevationGain, &a.ElevationLoss, &a.AvgSpeed, &a.MaxSpeed,
		&a.AvgPower, &a.MaxPower, &a.TotalSets, &a.TotalReps, &a.TotalWeightKg, &detailsSynced,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.DetailsSynced = detailsSynced != 0
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &a, nil
}

// UpsertActivity merges non-null scalar fields onto any existing
// (user_id, activity_id) row; details_synced only ever advances from
// false to true, never back.
func (d *DB) UpsertActivity(a *models.Activity) error {
	existing, err := d.getActivity(a.UserID, a.ActivityID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("upsert activity: %w", err)
	}

	now := time.Now().UTC()
	merged := *a
	if existing != nil {
		merged = *existing
		mergeActivityNonNil(&merged, a)
		merged.DetailsSynced = merged.DetailsSynced || a.DetailsSynced
	} else {
		merged.CreatedAt = now
	}
	merged.UpdatedAt = now

	detailsSynced := 0
	if merged.DetailsSynced {
		detailsSynced = 1
	}

	_, err = d.db.Exec(`
		INSERT INTO activities (
			user_id, activity_id, activity_date, activity_name, activity_type,
			duration_seconds, avg_heart_rate, max_heart_rate, training_load, start_time,
			distance_meters, calories, elevation_gain, elevation_loss, avg_speed, max_speed,
			avg_power, max_power, total_sets, total_reps, total_weight_kg, details_synced,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, activity_id) DO UPDATE SET
			activity_date=excluded.activity_date, activity_name=excluded.activity_name,
			activity_type=excluded.activity_type, duration_seconds=excluded.duration_seconds,
			avg_heart_rate=excluded.avg_heart_rate, max_heart_rate=excluded.max_heart_rate,
			training_load=excluded.training_load, start_time=excluded.start_time,
			distance_meters=excluded.distance_meters, calories=excluded.calories,
			elevation_gain=excluded.elevation_gain, elevation_loss=excluded.elevation_loss,
			avg_speed=excluded.avg_speed, max_speed=excluded.max_speed,
			avg_power=excluded.avg_power, max_power=excluded.max_power,
			total_sets=excluded.total_sets, total_reps=excluded.total_reps,
			total_weight_kg=excluded.total_weight_kg, details_synced=excluded.details_synced,
			updated_at=excluded.updated_at
	`,
		merged.UserID, merged.ActivityID, merged.ActivityDate, merged.ActivityName, merged.ActivityType,
		merged.DurationSeconds, merged.AvgHeartRate, merged.MaxHeartRate, merged.TrainingLoad, merged.StartTime,
		merged.DistanceMeters, merged.Calories, merged.ElevationGain, merged.ElevationLoss, merged.AvgSpeed, merged.MaxSpeed,
		merged.AvgPower, merged.MaxPower, merged.TotalSets, merged.TotalReps, merged.TotalWeightKg, detailsSynced,
		merged.CreatedAt.Format(time.RFC3339), merged.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	return nil
}

func mergeActivityNonNil(dst, src *models.Activity) {
	if src.ActivityName != nil {
		dst.ActivityName = src.ActivityName
	}
	if src.ActivityType != nil {
		dst.ActivityType = src.ActivityType
	}
	if src.DurationSeconds != nil {
		dst.DurationSeconds = src.DurationSeconds
	}
	if src.AvgHeartRate != nil {
		dst.AvgHeartRate = src.AvgHeartRate
	}
	if src.MaxHeartRate != nil {
		dst.MaxHeartRate = src.MaxHeartRate
	}
	if src.TrainingLoad != nil {
		dst.TrainingLoad = src.TrainingLoad
	}
	if src.StartTime != nil {
		dst.StartTime = src.StartTime
	}
	if src.DistanceMeters != nil {
		dst.DistanceMeters = src.DistanceMeters
	}
	if src.Calories != nil {
		dst.Calories = src.Calories
	}
	if src.ElevationGain != nil {
		dst.ElevationGain = src.ElevationGain
	}
	if src.ElevationLoss != nil {
		dst.ElevationLoss = src.ElevationLoss
	}
	if src.AvgSpeed != nil {
		dst.AvgSpeed = src.AvgSpeed
	}
	if src.MaxSpeed != nil {
		dst.MaxSpeed = src.MaxSpeed
	}
	if src.AvgPower != nil {
		dst.AvgPower = src.AvgPower
	}
	if src.MaxPower != nil {
		dst.MaxPower = src.MaxPower
	}
	if src.TotalSets != nil {
		dst.TotalSets = src.TotalSets
	}
	if src.TotalReps != nil {
		dst.TotalReps = src.TotalReps
	}
	if src.TotalWeightKg != nil {
		dst.TotalWeightKg = src.TotalWeightKg
	}
	if src.ActivityDate != "" {
		dst.ActivityDate = src.ActivityDate
	}
}

func (d *DB) getActivity(userID int64, activityID string) (*models.Activity, error) {
	row := d.db.QueryRow(activitiesSelectCols+`FROM activities WHERE user_id = ? AND activity_id = ?`, userID, activityID)
	return scanActivity(row)
}

// ActivityExists reports whether an activity row exists.
func (d *DB) ActivityExists(userID int64, activityID string) (bool, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(1) FROM activities WHERE user_id = ? AND activity_id = ?`, userID, activityID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("activity exists: %w", err)
	}
	return n > 0, nil
}

// ActivityHasSplits reports whether any activity_splits rows exist for
// the activity; detail sync uses this to skip re-fetching splits.
func (d *DB) ActivityHasSplits(userID int64, activityID string) (bool, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(1) FROM activity_splits WHERE user_id = ? AND activity_id = ?`, userID, activityID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("activity has splits: %w", err)
	}
	return n > 0, nil
}

// GetActivities returns activities for user_id within [start, end]
// inclusive, optionally filtered by a case-sensitive exact name match,
// ordered by date descending (most recent first).
func (d *DB) GetActivities(userID int64, start, end string, name *string) ([]*models.Activity, error) {
	query := activitiesSelectCols + `FROM activities WHERE user_id = ? AND activity_date BETWEEN ? AND ?`
	args := []any{userID, start, end}
	if name != nil {
		query += ` AND activity_name = ?`
		args = append(args, *name)
	}
	query += ` ORDER BY activity_date DESC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get activities: %w", err)
	}
	defer rows.Close()

	var out []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActivitiesMissingDetails returns up to limit activities (newest
// first) with details_synced = false, for BackfillActivityDetails.
func (d *DB) ActivitiesMissingDetails(userID int64, limit int) ([]*models.Activity, error) {
	query := activitiesSelectCols + `FROM activities WHERE user_id = ? AND details_synced = 0 ORDER BY activity_date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("activities missing details: %w", err)
	}
	defer rows.Close()

	var out []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CardioActivitiesMissingSplits returns up to limit cardio activities
// (newest first) that have no activity_splits rows yet.
func (d *DB) CardioActivitiesMissingSplits(userID int64, limit int) ([]*models.Activity, error) {
	query := activitiesSelectCols + `FROM activities a
		WHERE a.user_id = ? AND NOT EXISTS (
			SELECT 1 FROM activity_splits s WHERE s.user_id = a.user_id AND s.activity_id = a.activity_id
		)
		ORDER BY a.activity_date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("cardio activities missing splits: %w", err)
	}
	defer rows.Close()

	var out []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		if a.IsCardio() {
			out = append(out, a)
		}
	}
	return out, rows.Err()
}

// ActivitiesMissingDistance returns activities that have splits stored
// but a null distance_meters, for BackfillActivityDistanceFromSplits.
func (d *DB) ActivitiesMissingDistance(userID int64) ([]*models.Activity, error) {
	query := activitiesSelectCols + `FROM activities a
		WHERE a.user_id = ? AND a.distance_meters IS NULL AND EXISTS (
			SELECT 1 FROM activity_splits s WHERE s.user_id = a.user_id AND s.activity_id = a.activity_id
		)
		ORDER BY a.activity_date DESC`
	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("activities missing distance: %w", err)
	}
	defer rows.Close()

	var out []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertExerciseSets upserts each of sets on (user_id, activity_id,
// set_order) inside one transaction; existing rows whose set_order is
// not in sets are left in place. Re-running detail sync on the same
// activity is idempotent: identical input yields identical rows.
func (d *DB) UpsertExerciseSets(userID int64, activityID string, sets []models.ExerciseSet) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("upsert exercise sets: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range sets {
		_, err := tx.Exec(`
			INSERT INTO exercise_sets (
				user_id, activity_id, set_order, exercise_category, exercise_name,
				set_type, repetition_count, weight_grams, duration_seconds, start_time, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, activity_id, set_order) DO UPDATE SET
				exercise_category=excluded.exercise_category, exercise_name=excluded.exercise_name,
				set_type=excluded.set_type, repetition_count=excluded.repetition_count,
				weight_grams=excluded.weight_grams, duration_seconds=excluded.duration_seconds,
				start_time=excluded.start_time
		`,
			userID, activityID, s.SetOrder, s.ExerciseCategory, s.ExerciseName,
			s.SetType, s.RepetitionCount, s.WeightGrams, s.DurationSeconds, s.StartTime, now,
		)
		if err != nil {
			return fmt.Errorf("upsert exercise set %d: %w", s.SetOrder, err)
		}
	}
	return tx.Commit()
}

// GetExerciseSets returns exercise_sets rows for an activity, ordered
// by set_order.
func (d *DB) GetExerciseSets(userID int64, activityID string) ([]models.ExerciseSet, error) {
	rows, err := d.db.Query(`
		SELECT user_id, activity_id, set_order, exercise_category, exercise_name,
			set_type, repetition_count, weight_grams, duration_seconds, start_time, created_at
		FROM exercise_sets WHERE user_id = ? AND activity_id = ? ORDER BY set_order ASC
	`, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("get exercise sets: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseSet
	for rows.Next() {
		var s models.ExerciseSet
		var createdAt string
		if err := rows.Scan(
			&s.UserID, &s.ActivityID, &s.SetOrder, &s.ExerciseCategory, &s.ExerciseName,
			&s.SetType, &s.RepetitionCount, &s.WeightGrams, &s.DurationSeconds, &s.StartTime, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan exercise set: %w", err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertActivitySplits upserts each of splits on (user_id, activity_id,
// lap_index) inside one transaction; existing rows whose lap_index is
// not in splits are left in place.
func (d *DB) UpsertActivitySplits(userID int64, activityID string, splits []models.ActivitySplit) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("upsert activity splits: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range splits {
		_, err := tx.Exec(`
			INSERT INTO activity_splits (
				user_id, activity_id, lap_index, start_time, duration_seconds, moving_duration_seconds,
				distance_meters, avg_speed, max_speed, avg_moving_speed, avg_heart_rate, max_heart_rate,
				elevation_gain, elevation_loss, max_elevation, min_elevation, avg_cadence, max_cadence,
				calories, start_latitude, start_longitude, end_latitude, end_longitude, intensity_type, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, activity_id, lap_index) DO UPDATE SET
				start_time=excluded.start_time, duration_seconds=excluded.duration_seconds,
				moving_duration_seconds=excluded.moving_duration_seconds, distance_meters=excluded.distance_meters,
				avg_speed=excluded.avg_speed, max_speed=excluded.max_speed, avg_moving_speed=excluded.avg_moving_speed,
				avg_heart_rate=excluded.avg_heart_rate, max_heart_rate=excluded.max_heart_rate,
				elevation_gain=excluded.elevation_gain, elevation_loss=excluded.elevation_loss,
				max_elevation=excluded.max_elevation, min_elevation=excluded.min_elevation,
				avg_cadence=excluded.avg_cadence, max_cadence=excluded.max_cadence, calories=excluded.calories,
				start_latitude=excluded.start_latitude, start_longitude=excluded.start_longitude,
				end_latitude=excluded.end_latitude, end_longitude=excluded.end_longitude,
				intensity_type=excluded.intensity_type
		`,
			userID, activityID, s.LapIndex, s.StartTime, s.DurationSeconds, s.MovingDurationSeconds,
			s.DistanceMeters, s.AvgSpeed, s.MaxSpeed, s.AvgMovingSpeed, s.AvgHeartRate, s.MaxHeartRate,
			s.ElevationGain, s.ElevationLoss, s.MaxElevation, s.MinElevation, s.AvgCadence, s.MaxCadence,
			s.Calories, s.StartLatitude, s.StartLongitude, s.EndLatitude, s.EndLongitude, s.IntensityType, now,
		)
		if err != nil {
			return fmt.Errorf("upsert activity split %d: %w", s.LapIndex, err)
		}
	}
	return tx.Commit()
}

// GetActivitySplits returns activity_splits rows for an activity,
// ordered by lap_index.
func (d *DB) GetActivitySplits(userID int64, activityID string) ([]models.ActivitySplit, error) {
	rows, err := d.db.Query(`
		SELECT user_id, activity_id, lap_index, start_time, duration_seconds, moving_duration_seconds,
			distance_meters, avg_speed, max_speed, avg_moving_speed, avg_heart_rate, max_heart_rate,
			elevation_gain, elevation_loss, max_elevation, min_elevation, avg_cadence, max_cadence,
			calories, start_latitude, start_longitude, end_latitude, end_longitude, intensity_type, created_at
		FROM activity_splits WHERE user_id = ? AND activity_id = ? ORDER BY lap_index ASC
	`, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("get activity splits: %w", err)
	}
	defer rows.Close()

	var out []models.ActivitySplit
	for rows.Next() {
		var s models.ActivitySplit
		var createdAt string
		if err := rows.Scan(
			&s.UserID, &s.ActivityID, &s.LapIndex, &s.StartTime, &s.DurationSeconds, &s.MovingDurationSeconds,
			&s.DistanceMeters, &s.AvgSpeed, &s.MaxSpeed, &s.AvgMovingSpeed, &s.AvgHeartRate, &s.MaxHeartRate,
			&s.ElevationGain, &s.ElevationLoss, &s.MaxElevation, &s.MinElevation, &s.AvgCadence, &s.MaxCadence,
			&s.Calories, &s.StartLatitude, &s.StartLongitude, &s.EndLatitude, &s.EndLongitude, &s.IntensityType, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity split: %w", err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}
