package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

// dailySummaryWire is the usersummary-service daily response shape.
type dailySummaryWire struct {
	TotalSteps               *int64   `json:"totalSteps"`
	DailyStepGoal            *int64   `json:"dailyStepGoal"`
	TotalDistanceMeters      *float64 `json:"totalDistanceMeters"`
	TotalKilocalories        *int64   `json:"totalKilocalories"`
	ActiveKilocalories       *int64   `json:"activeKilocalories"`
	BmrKilocalories          *int64   `json:"bmrKilocalories"`
	RestingHeartRate         *int64   `json:"restingHeartRate"`
	MaxHeartRate             *int64   `json:"maxHeartRate"`
	MinHeartRate             *int64   `json:"minHeartRate"`
	AverageHeartRate         *int64   `json:"averageHeartRate"`
	AverageStressLevel       *int64   `json:"averageStressLevel"`
	MaxStressLevel           *int64   `json:"maxStressLevel"`
	BodyBatteryHighestValue  *int64   `json:"bodyBatteryHighestValue"`
	BodyBatteryLowestValue   *int64   `json:"bodyBatteryLowestValue"`
	AverageSpo2Value         *float64 `json:"averageSpo2Value"`
	AverageRespirationValue  *float64 `json:"averageRespirationValue"`
	FloorsAscended           *int64   `json:"floorsAscended"`
	ModerateIntensityMinutes *int64   `json:"moderateIntensityMinutes"`
	VigorousIntensityMinutes *int64   `json:"vigorousIntensityMinutes"`
}

func (w dailySummaryWire) row() *models.DailyHealthRow {
	return &models.DailyHealthRow{
		TotalSteps:          w.TotalSteps,
		StepGoal:            w.DailyStepGoal,
		TotalDistanceMeters: w.TotalDistanceMeters,
		TotalCalories:       w.TotalKilocalories,
		ActiveCalories:      w.ActiveKilocalories,
		BMRCalories:         w.BmrKilocalories,
		RestingHeartRate:    w.RestingHeartRate,
		MaxHeartRate:        w.MaxHeartRate,
		MinHeartRate:        w.MinHeartRate,
		AverageHeartRate:    w.AverageHeartRate,
		AvgStressLevel:      w.AverageStressLevel,
		MaxStressLevel:      w.MaxStressLevel,
		BodyBatteryHigh:     w.BodyBatteryHighestValue,
		BodyBatteryLow:      w.BodyBatteryLowestValue,
		AverageSpO2:         w.AverageSpo2Value,
		AverageRespiration:  w.AverageRespirationValue,

		FloorsClimbed:            w.FloorsAscended,
		IntensityMinutesModerate: w.ModerateIntensityMinutes,
		IntensityMinutesVigorous: w.VigorousIntensityMinutes,
	}
}

// ParseDailySummary maps the usersummary-service daily response onto a
// full DailyHealthRow summary.
func ParseDailySummary(raw json.RawMessage) (Reading, error) {
	var w dailySummaryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse daily summary: %w", err)
	}
	return Reading{Kind: models.KindDailySummary, Summary: w.row()}, nil
}

// ParseSteps pulls just the step-related subset of the same response,
// used when only KindSteps was requested (an idempotent partial merge
// onto the same row as KindDailySummary).
func ParseSteps(raw json.RawMessage) (Reading, error) {
	var w dailySummaryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse steps: %w", err)
	}
	return Reading{Kind: models.KindSteps, Summary: &models.DailyHealthRow{
		TotalSteps:          w.TotalSteps,
		StepGoal:            w.DailyStepGoal,
		TotalDistanceMeters: w.TotalDistanceMeters,
	}}, nil
}

// ParseCalories pulls just the calorie subset of the same response.
func ParseCalories(raw json.RawMessage) (Reading, error) {
	var w dailySummaryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse calories: %w", err)
	}
	return Reading{Kind: models.KindCalories, Summary: &models.DailyHealthRow{
		TotalCalories:  w.TotalKilocalories,
		ActiveCalories: w.ActiveKilocalories,
		BMRCalories:    w.BmrKilocalories,
	}}, nil
}
