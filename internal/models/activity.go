package models

import "time"

// Activity is a single workout/activity session, along with the
// lightweight summary fields available from the activities list endpoint.
// Detail fields (splits, exercise sets) are synced separately and marked
// by DetailsSynced.
type Activity struct {
	UserID       int64
	ActivityID   string
	ActivityDate string // YYYY-MM-DD, derived from StartTime
	ActivityName *string
	ActivityType *string

	DurationSeconds *int64
	AvgHeartRate    *int64
	MaxHeartRate    *int64
	TrainingLoad    *float64
	StartTime       *string // ISO timestamp, vendor-local

	DistanceMeters *float64
	Calories       *int64
	ElevationGain  *float64
	ElevationLoss  *float64
	AvgSpeed       *float64 // m/s
	MaxSpeed       *float64 // m/s
	AvgPower       *float64 // watts, supplements original schema
	MaxPower       *float64 // watts, supplements original schema

	TotalSets     *int64
	TotalReps     *int64
	TotalWeightKg *float64

	DetailsSynced bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StrengthTypes lists ActivityType values treated as strength training:
// their detail sync fetches exercise sets rather than splits.
var StrengthTypes = map[string]bool{
	"strength_training":        true,
	"indoor_strength_training": true,
}

// CardioTypes lists ActivityType values treated as cardio: their detail
// sync fetches lap/split data rather than exercise sets.
var CardioTypes = map[string]bool{
	"running":              true,
	"treadmill_running":    true,
	"trail_running":        true,
	"track_running":        true,
	"cycling":              true,
	"indoor_cycling":       true,
	"virtual_ride":         true,
	"gravel_cycling":       true,
	"road_cycling":         true,
	"walking":              true,
	"hiking":               true,
	"swimming":             true,
	"lap_swimming":         true,
	"open_water_swimming":  true,
	"elliptical":           true,
	"stair_climbing":       true,
	"rowing":               true,
	"indoor_rowing":        true,
}

// IsStrength reports whether the activity's type is a strength-training
// variant.
func (a *Activity) IsStrength() bool {
	return a.ActivityType != nil && StrengthTypes[*a.ActivityType]
}

// IsCardio reports whether the activity's type is a cardio variant.
func (a *Activity) IsCardio() bool {
	return a.ActivityType != nil && CardioTypes[*a.ActivityType]
}

// ExerciseSet is one set within a strength-training activity.
type ExerciseSet struct {
	UserID     int64
	ActivityID string
	SetOrder   int64 // 0-indexed position within the activity

	ExerciseCategory *string
	ExerciseName     *string
	SetType          *string // ACTIVE, REST
	RepetitionCount  *int64
	WeightGrams      *float64
	DurationSeconds  *float64
	StartTime        *string

	CreatedAt time.Time
}

// ActivitySplit is one lap/split within a cardio activity.
type ActivitySplit struct {
	UserID     int64
	ActivityID string
	LapIndex   int64 // 1-indexed

	StartTime             *string
	DurationSeconds       *float64
	MovingDurationSeconds *float64

	DistanceMeters *float64
	AvgSpeed       *float64
	MaxSpeed       *float64
	AvgMovingSpeed *float64

	AvgHeartRate *int64
	MaxHeartRate *int64

	ElevationGain *float64
	ElevationLoss *float64
	MaxElevation  *float64
	MinElevation  *float64

	AvgCadence *float64
	MaxCadence *float64

	Calories *float64

	StartLatitude  *float64
	StartLongitude *float64
	EndLatitude    *float64
	EndLongitude   *float64

	IntensityType *string // ACTIVE, REST

	CreatedAt time.Time
}

// StrengthSummary is the total-volume rollup computed from a set of
// ExerciseSet rows, used to backfill Activity.TotalSets/TotalReps/
// TotalWeightKg.
type StrengthSummary struct {
	TotalSets     int64
	TotalReps     int64
	TotalWeightKg float64
}

// CalculateStrengthSummary sums only ACTIVE sets: reps sum directly,
// and weight volume is sum(weightGrams * repetitionCount) / 1000,
// converting gram-reps to kilogram-reps.
func CalculateStrengthSummary(sets []ExerciseSet) StrengthSummary {
	var s StrengthSummary
	for _, set := range sets {
		if set.SetType == nil || *set.SetType != "ACTIVE" {
			continue
		}
		s.TotalSets++
		reps := int64(0)
		if set.RepetitionCount != nil {
			reps = *set.RepetitionCount
		}
		s.TotalReps += reps
		if set.WeightGrams != nil {
			s.TotalWeightKg += *set.WeightGrams * float64(reps) / 1000
		}
	}
	return s
}

// SplitsSummary is the cardio rollup computed from ActivitySplit rows.
type SplitsSummary struct {
	TotalDistanceMeters float64
	TotalDurationSeconds float64
	TotalElevationGain  float64
	TotalCalories       float64
	AvgPaceMinPerKm     float64
}

// CalculateSplitsSummary sums only ACTIVE splits and derives the average
// pace in minutes per kilometer when both duration and distance are
// present.
func CalculateSplitsSummary(splits []ActivitySplit) SplitsSummary {
	var s SplitsSummary
	for _, sp := range splits {
		if sp.IntensityType == nil || *sp.IntensityType != "ACTIVE" {
			continue
		}
		if sp.DistanceMeters != nil {
			s.TotalDistanceMeters += *sp.DistanceMeters
		}
		if sp.DurationSeconds != nil {
			s.TotalDurationSeconds += *sp.DurationSeconds
		}
		if sp.ElevationGain != nil {
			s.TotalElevationGain += *sp.ElevationGain
		}
		if sp.Calories != nil {
			s.TotalCalories += *sp.Calories
		}
	}
	if s.TotalDurationSeconds > 0 && s.TotalDistanceMeters > 0 {
		s.AvgPaceMinPerKm = (s.TotalDurationSeconds / 60) / (s.TotalDistanceMeters / 1000)
	}
	return s
}
