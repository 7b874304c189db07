package models

import "time"

// DailyHealthRow is the normalized per-user, per-day health summary row.
// Every field is a pointer so that a partial update (one metric kind
// synced, others still pending) can be merged without clobbering fields
// another sync phase already populated — see
// storage.Repository.UpsertDailyHealth for the merge rule (a non-nil
// incoming value always wins; a nil incoming value never overwrites an
// existing one).
type DailyHealthRow struct {
	UserID int64
	Date   string // YYYY-MM-DD

	TotalSteps           *int64
	StepGoal             *int64
	TotalDistanceMeters  *float64
	FloorsClimbed        *int64

	TotalCalories *int64
	ActiveCalories *int64
	BMRCalories    *int64

	RestingHeartRate *int64
	MaxHeartRate     *int64
	MinHeartRate     *int64
	AverageHeartRate *int64

	AvgStressLevel *int64
	MaxStressLevel *int64

	BodyBatteryHigh *int64
	BodyBatteryLow  *int64

	SleepDurationHours *float64
	DeepSleepHours     *float64
	LightSleepHours    *float64
	REMSleepHours      *float64
	AwakeHours         *float64

	DeepSleepPercentage  *float64
	LightSleepPercentage *float64
	REMSleepPercentage   *float64
	AwakePercentage      *float64

	AverageSpO2        *float64
	AverageRespiration *float64

	TrainingReadinessScore    *int64
	TrainingReadinessLevel    *string
	TrainingReadinessFeedback *string

	HRVWeeklyAvg    *float64
	HRVLastNightAvg *float64
	HRVStatus       *string

	AvgWakingRespirationValue *float64
	AvgSleepRespirationValue  *float64
	LowestRespirationValue    *float64
	HighestRespirationValue   *float64

	SleepScore          *int64
	SleepScoreQualifier *string
	SleepBedtime        *string // ISO timestamp
	SleepWakeTime       *string // ISO timestamp
	SleepNeedMinutes    *int64

	SkinTempDeviationC *float64

	// IntensityMinutesModerate/Vigorous supplement the original schema
	// with fields the vendor's daily summary exposes but localdb/models.py
	// dropped; extractors.py reads them tolerantly alongside step/calorie
	// fields.
	IntensityMinutesModerate *int64
	IntensityMinutesVigorous *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MergeNonNil copies every non-nil field from other into r, leaving r's
// existing value untouched wherever other is nil. Never overwrites a
// present value with an absent one.
func (r *DailyHealthRow) MergeNonNil(other *DailyHealthRow) {
	if other.TotalSteps != nil {
		r.TotalSteps = other.TotalSteps
	}
	if other.StepGoal != nil {
		r.StepGoal = other.StepGoal
	}
	if other.TotalDistanceMeters != nil {
		r.TotalDistanceMeters = other.TotalDistanceMeters
	}
	if other.FloorsClimbed != nil {
		r.FloorsClimbed = other.FloorsClimbed
	}
	if other.TotalCalories != nil {
		r.TotalCalories = other.TotalCalories
	}
	if other.ActiveCalories != nil {
		r.ActiveCalories = other.ActiveCalories
	}
	if other.BMRCalories != nil {
		r.BMRCalories = other.BMRCalories
	}
	if other.RestingHeartRate != nil {
		r.RestingHeartRate = other.RestingHeartRate
	}
	if other.MaxHeartRate != nil {
		r.MaxHeartRate = other.MaxHeartRate
	}
	if other.MinHeartRate != nil {
		r.MinHeartRate = other.MinHeartRate
	}
	if other.AverageHeartRate != nil {
		r.AverageHeartRate = other.AverageHeartRate
	}
	if other.AvgStressLevel != nil {
		r.AvgStressLevel = other.AvgStressLevel
	}
	if other.MaxStressLevel != nil {
		r.MaxStressLevel = other.MaxStressLevel
	}
	if other.BodyBatteryHigh != nil {
		r.BodyBatteryHigh = other.BodyBatteryHigh
	}
	if other.BodyBatteryLow != nil {
		r.BodyBatteryLow = other.BodyBatteryLow
	}
	if other.SleepDurationHours != nil {
		r.SleepDurationHours = other.SleepDurationHours
	}
	if other.DeepSleepHours != nil {
		r.DeepSleepHours = other.DeepSleepHours
	}
	if other.LightSleepHours != nil {
		r.LightSleepHours = other.LightSleepHours
	}
	if other.REMSleepHours != nil {
		r.REMSleepHours = other.REMSleepHours
	}
	if other.AwakeHours != nil {
		r.AwakeHours = other.AwakeHours
	}
	if other.DeepSleepPercentage != nil {
		r.DeepSleepPercentage = other.DeepSleepPercentage
	}
	if other.LightSleepPercentage != nil {
		r.LightSleepPercentage = other.LightSleepPercentage
	}
	if other.REMSleepPercentage != nil {
		r.REMSleepPercentage = other.REMSleepPercentage
	}
	if other.AwakePercentage != nil {
		r.AwakePercentage = other.AwakePercentage
	}
	if other.AverageSpO2 != nil {
		r.AverageSpO2 = other.AverageSpO2
	}
	if other.AverageRespiration != nil {
		r.AverageRespiration = other.AverageRespiration
	}
	if other.TrainingReadinessScore != nil {
		r.TrainingReadinessScore = other.TrainingReadinessScore
	}
	if other.TrainingReadinessLevel != nil {
		r.TrainingReadinessLevel = other.TrainingReadinessLevel
	}
	if other.TrainingReadinessFeedback != nil {
		r.TrainingReadinessFeedback = other.TrainingReadinessFeedback
	}
	if other.HRVWeeklyAvg != nil {
		r.HRVWeeklyAvg = other.HRVWeeklyAvg
	}
	if other.HRVLastNightAvg != nil {
		r.HRVLastNightAvg = other.HRVLastNightAvg
	}
	if other.HRVStatus != nil {
		r.HRVStatus = other.HRVStatus
	}
	if other.AvgWakingRespirationValue != nil {
		r.AvgWakingRespirationValue = other.AvgWakingRespirationValue
	}
	if other.AvgSleepRespirationValue != nil {
		r.AvgSleepRespirationValue = other.AvgSleepRespirationValue
	}
	if other.LowestRespirationValue != nil {
		r.LowestRespirationValue = other.LowestRespirationValue
	}
	if other.HighestRespirationValue != nil {
		r.HighestRespirationValue = other.HighestRespirationValue
	}
	if other.SleepScore != nil {
		r.SleepScore = other.SleepScore
	}
	if other.SleepScoreQualifier != nil {
		r.SleepScoreQualifier = other.SleepScoreQualifier
	}
	if other.SleepBedtime != nil {
		r.SleepBedtime = other.SleepBedtime
	}
	if other.SleepWakeTime != nil {
		r.SleepWakeTime = other.SleepWakeTime
	}
	if other.SleepNeedMinutes != nil {
		r.SleepNeedMinutes = other.SleepNeedMinutes
	}
	if other.SkinTempDeviationC != nil {
		r.SkinTempDeviationC = other.SkinTempDeviationC
	}
	if other.IntensityMinutesModerate != nil {
		r.IntensityMinutesModerate = other.IntensityMinutesModerate
	}
	if other.IntensityMinutesVigorous != nil {
		r.IntensityMinutesVigorous = other.IntensityMinutesVigorous
	}
}

// IsEmpty reports whether no field carries data, meaning the extraction
// produced nothing worth storing.
func (r *DailyHealthRow) IsEmpty() bool {
	empty := &DailyHealthRow{UserID: r.UserID, Date: r.Date, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	merged := *empty
	merged.MergeNonNil(r)
	return merged == *empty
}
