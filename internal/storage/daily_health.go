// ABOUTME: daily_health CRUD: read-merge-write upserts keyed on (user_id, date).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arborhealth/vitalsync/internal/models"
)

// UpsertDailyHealth reads the existing row (if any), merges row's
// non-null fields on top, and writes the result back. A brand-new row
// is inserted as-is.
func (d *DB) UpsertDailyHealth(row *models.DailyHealthRow) error {
	existing, err := d.getDailyHealth(row.UserID, row.Date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("upsert daily health: %w", err)
	}

	now := time.Now().UTC()
	merged := row
	if existing != nil {
		merged = existing
		merged.MergeNonNil(row)
	} else {
		merged.CreatedAt = now
	}
	merged.UpdatedAt = now

	_, err = d.db.Exec(`
		INSERT INTO daily_health (
			user_id, date, total_steps, step_goal, total_distance_meters, floors_climbed,
			total_calories, active_calories, bmr_calories,
			resting_heart_rate, max_heart_rate, min_heart_rate, average_heart_rate,
			avg_stress_level, max_stress_level, body_battery_high, body_battery_low,
			sleep_duration_hours, deep_sleep_hours, light_sleep_hours, rem_sleep_hours, awake_hours,
			deep_sleep_percentage, light_sleep_percentage, rem_sleep_percentage, awake_percentage,
			average_spo2, average_respiration,
			training_readiness_score, training_readiness_level, training_readiness_feedback,
			hrv_weekly_avg, hrv_last_night_avg, hrv_status,
			avg_waking_respiration_value, avg_sleep_respiration_value,
			lowest_respiration_value, highest_respiration_value,
			sleep_score, sleep_score_qualifier, sleep_bedtime, sleep_wake_time, sleep_need_minutes,
			skin_temp_deviation_c, intensity_minutes_moderate, intensity_minutes_vigorous,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			total_steps=excluded.total_steps, step_goal=excluded.step_goal,
			total_distance_meters=excluded.total_distance_meters, floors_climbed=excluded.floors_climbed,
			total_calories=excluded.total_calories, active_calories=excluded.active_calories,
			bmr_calories=excluded.bmr_calories,
			resting_heart_rate=excluded.resting_heart_rate, max_heart_rate=excluded.max_heart_rate,
			min_heart_rate=excluded.min_heart_rate, average_heart_rate=excluded.average_heart_rate,
			avg_stress_level=excluded.avg_stress_level, max_stress_level=excluded.max_stress_level,
			body_battery_high=excluded.body_battery_high, body_battery_low=excluded.body_battery_low,
			sleep_duration_hours=excluded.sleep_duration_hours, deep_sleep_hours=excluded.deep_sleep_hours,
			light_sleep_hours=excluded.light_sleep_hours, rem_sleep_hours=excluded.rem_sleep_hours,
			awake_hours=excluded.awake_hours,
			deep_sleep_percentage=excluded.deep_sleep_percentage,
			light_sleep_percentage=excluded.light_sleep_percentage,
			rem_sleep_percentage=excluded.rem_sleep_percentage, awake_percentage=excluded.awake_percentage,
			average_spo2=excluded.average_spo2, average_respiration=excluded.average_respiration,
			training_readiness_score=excluded.training_readiness_score,
			training_readiness_level=excluded.training_readiness_level,
			training_readiness_feedback=excluded.training_readiness_feedback,
			hrv_weekly_avg=excluded.hrv_weekly_avg, hrv_last_night_avg=excluded.hrv_last_night_avg,
			hrv_status=excluded.hrv_status,
			avg_waking_respiration_value=excluded.avg_waking_respiration_value,
			avg_sleep_respiration_value=excluded.avg_sleep_respiration_value,
			lowest_respiration_value=excluded.lowest_respiration_value,
			highest_respiration_value=excluded.highest_respiration_value,
			sleep_score=excluded.sleep_score, sleep_score_qualifier=excluded.sleep_score_qualifier,
			sleep_bedtime=excluded.sleep_bedtime, sleep_wake_time=excluded.sleep_wake_time,
			sleep_need_minutes=excluded.sleep_need_minutes,
			skin_temp_deviation_c=excluded.skin_temp_deviation_c,
			intensity_minutes_moderate=excluded.intensity_minutes_moderate,
			intensity_minutes_vigorous=excluded.intensity_minutes_vigorous,
			updated_at=excluded.updated_at
	`,
		merged.UserID, merged.Date, merged.TotalSteps, merged.StepGoal, merged.TotalDistanceMeters, merged.FloorsClimbed,
		merged.TotalCalories, merged.ActiveCalories, merged.BMRCalories,
		merged.RestingHeartRate, merged.MaxHeartRate, merged.MinHeartRate, merged.AverageHeartRate,
		merged.AvgStressLevel, merged.MaxStressLevel, merged.BodyBatteryHigh, merged.BodyBatteryLow,
		merged.SleepDurationHours, merged.DeepSleepHours, merged.LightSleepHours, merged.REMSleepHours, merged.AwakeHours,
		merged.DeepSleepPercentage, merged.LightSleepPercentage, merged.REMSleepPercentage, merged.AwakePercentage,
		merged.AverageSpO2, merged.AverageRespiration,
		merged.TrainingReadinessScore, merged.TrainingReadinessLevel, merged.TrainingReadinessFeedback,
		merged.HRVWeeklyAvg, merged.HRVLastNightAvg, merged.HRVStatus,
		merged.AvgWakingRespirationValue, merged.AvgSleepRespirationValue,
		merged.LowestRespirationValue, merged.HighestRespirationValue,
		merged.SleepScore, merged.SleepScoreQualifier, merged.SleepBedtime, merged.SleepWakeTime, merged.SleepNeedMinutes,
		merged.SkinTempDeviationC, merged.IntensityMinutesModerate, merged.IntensityMinutesVigorous,
		merged.CreatedAt.Format(time.RFC3339), merged.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert daily health: %w", err)
	}
	return nil
}

func (d *DB) getDailyHealth(userID int64, date string) (*models.DailyHealthRow, error) {
	row := d.db.QueryRow(dailyHealthSelectCols+`FROM daily_health WHERE user_id = ? AND date = ?`, userID, date)
	return scanDailyHealth(row)
}

const dailyHealthSelectCols = `
	SELECT user_id, date, total_steps, step_goal, total_distance_meters, floors_climbed,
		total_calories, active_calories, bmr_calories,
		resting_heart_rate, max_heart_rate, min_heart_rate, average_heart_rate,
		avg_stress_level, max_stress_level, body_battery_high, body_battery_low,
		sleep_duration_hours, deep_sleep_hours, light_sleep_hours, rem_sleep_hours, awake_hours,
		deep_sleep_percentage, light_sleep_percentage, rem_sleep_percentage, awake_percentage,
		average_spo2, average_respiration,
		training_readiness_score, training_readiness_level, training_readiness_feedback,
		hrv_weekly_avg, hrv_last_night_avg, hrv_status,
		avg_waking_respiration_value, avg_sleep_respiration_value,
		lowest_respiration_value, highest_respiration_value,
		sleep_score, sleep_score_qualifier, sleep_bedtime, sleep_wake_time, sleep_need_minutes,
		skin_temp_deviation_c, intensity_minutes_moderate, intensity_minutes_vigorous,
		created_at, updated_at
	`

type scanner interface {
	Scan(dest ...any) error
}

func scanDailyHealth(row scanner) (*models.DailyHealthRow, error) {
	var r models.DailyHealthRow
	var createdAt, updatedAt string
	err := row.Scan(
		&r.UserID, &r.Date, &r.TotalSteps, &r.StepGoal, &r.TotalDistanceMeters, &r.FloorsClimbed,
		&r.TotalCalories, &r.ActiveCalories, &r.BMRCalories,
		&r.RestingHeartRate, &r.MaxHeartRate, &r.MinHeartRate, &r.AverageHeartRate,
		&r.AvgStressLevel, &r.MaxStressLevel, &r.BodyBatteryHigh, &r.BodyBatteryLow,
		&r.SleepDurationHours, &r.DeepSleepHours, &r.LightSleepHours, &r.REMSleepHours, &r.AwakeHours,
		&r.DeepSleepPercentage, &r.LightSleepPercentage, &r.REMSleepPercentage, &r.AwakePercentage,
		&r.AverageSpO2, &r.AverageRespiration,
		&r.TrainingReadinessScore, &r.TrainingReadinessLevel, &r.TrainingReadinessFeedback,
		&r.HRVWeeklyAvg, &r.HRVLastNightAvg, &r.HRVStatus,
		&r.AvgWakingRespirationValue, &r.AvgSleepRespirationValue,
		&r.LowestRespirationValue, &r.HighestRespirationValue,
		&r.SleepScore, &r.SleepScoreQualifier, &r.SleepBedtime, &r.SleepWakeTime, &r.SleepNeedMinutes,
		&r.SkinTempDeviationC, &r.IntensityMinutesModerate, &r.IntensityMinutesVigorous,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// GetHealthMetrics returns daily_health rows for user_id within
// [start, end] inclusive, ordered by date ascending.
func (d *DB) GetHealthMetrics(userID int64, start, end string) ([]*models.DailyHealthRow, error) {
	rows, err := d.db.Query(dailyHealthSelectCols+`FROM daily_health WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get health metrics: %w", err)
	}
	defer rows.Close()

	var out []*models.DailyHealthRow
	for rows.Next() {
		r, err := scanDailyHealth(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily health: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// HealthMetricExists reports whether a daily_health row exists for
// (user_id, date).
func (d *DB) HealthMetricExists(userID int64, date string) (bool, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(1) FROM daily_health WHERE user_id = ? AND date = ?`, userID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("health metric exists: %w", err)
	}
	return n > 0, nil
}
