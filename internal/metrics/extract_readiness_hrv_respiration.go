package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

type trainingReadinessWire struct {
	Score         *int64  `json:"score"`
	Level         *string `json:"level"`
	FeedbackShort *string `json:"feedbackShort"`
}

// ParseTrainingReadiness maps the training readiness endpoint onto a
// DailyHealthRow fragment.
func ParseTrainingReadiness(raw json.RawMessage) (Reading, error) {
	var w trainingReadinessWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse training readiness: %w", err)
	}
	return Reading{Kind: models.KindTrainingReadiness, Summary: &models.DailyHealthRow{
		TrainingReadinessScore:    w.Score,
		TrainingReadinessLevel:    w.Level,
		TrainingReadinessFeedback: w.FeedbackShort,
	}}, nil
}

type hrvWire struct {
	HrvSummary *struct {
		WeeklyAvg    *float64 `json:"weeklyAvg"`
		LastNightAvg *float64 `json:"lastNightAvg"`
		Status       *string  `json:"status"`
	} `json:"hrvSummary"`
}

// ParseHRV maps the HRV endpoint's nested hrvSummary onto a
// DailyHealthRow fragment. Returns an all-nil row (not an error) when
// the summary is entirely absent.
func ParseHRV(raw json.RawMessage) (Reading, error) {
	var w hrvWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse hrv: %w", err)
	}
	if w.HrvSummary == nil {
		return Reading{Kind: models.KindHRV, Summary: &models.DailyHealthRow{}}, nil
	}
	return Reading{Kind: models.KindHRV, Summary: &models.DailyHealthRow{
		HRVWeeklyAvg:    w.HrvSummary.WeeklyAvg,
		HRVLastNightAvg: w.HrvSummary.LastNightAvg,
		HRVStatus:       w.HrvSummary.Status,
	}}, nil
}

// respirationSample decodes one [timestamp_ms, value] pair from the
// vendor's respirationValuesArray.
type respirationSample struct {
	TimestampMS *int64
	Value       *float64
}

func (s *respirationSample) UnmarshalJSON(data []byte) error {
	var pair [2]*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil
	}
	if pair[0] != nil {
		ts := int64(*pair[0])
		s.TimestampMS = &ts
	}
	s.Value = pair[1]
	return nil
}

type respirationWire struct {
	AvgRespirationValue       *float64            `json:"avgRespirationValue"`
	AvgWakingRespirationValue *float64            `json:"avgWakingRespirationValue"`
	AvgSleepRespirationValue  *float64            `json:"avgSleepRespirationValue"`
	LowestRespirationValue    *float64            `json:"lowestRespirationValue"`
	HighestRespirationValue   *float64            `json:"highestRespirationValue"`
	RespirationValuesArray    []respirationSample `json:"respirationValuesArray"`
}

// ParseRespiration maps the respiration endpoint onto a DailyHealthRow
// fragment plus its intraday timeseries. The summary collapses to an
// all-nil row (not an error) when every summary field is absent.
func ParseRespiration(raw json.RawMessage) (Reading, error) {
	var w respirationWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse respiration: %w", err)
	}

	row := &models.DailyHealthRow{
		AverageRespiration:        w.AvgRespirationValue,
		AvgWakingRespirationValue: w.AvgWakingRespirationValue,
		AvgSleepRespirationValue:  w.AvgSleepRespirationValue,
		LowestRespirationValue:    w.LowestRespirationValue,
		HighestRespirationValue:   w.HighestRespirationValue,
	}
	if row.AverageRespiration == nil && row.AvgWakingRespirationValue == nil &&
		row.AvgSleepRespirationValue == nil && row.LowestRespirationValue == nil &&
		row.HighestRespirationValue == nil {
		row = &models.DailyHealthRow{}
	}

	points := make([]models.TimeSeriesPoint, 0, len(w.RespirationValuesArray))
	for _, s := range w.RespirationValuesArray {
		if s.TimestampMS == nil || s.Value == nil {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Kind: models.KindRespiration, TimestampMS: *s.TimestampMS, Value: *s.Value})
	}

	return Reading{Kind: models.KindRespiration, Summary: row, Points: points}, nil
}
