package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

type stressReading struct {
	Timestamp      int64   `json:"timestamp"`
	StressLevel    *int64  `json:"stressLevel"`
	StressCategory *string `json:"stressCategory"`
}

type stressWire struct {
	AverageStressLevel *int64          `json:"averageStressLevel"`
	MaxStressLevel     *int64          `json:"maxStressLevel"`
	StressValuesArray  []stressReading `json:"stressValuesArray"`
}

// ParseStress maps the daily stress endpoint onto a summary row plus its
// intraday timeseries. A negative sentinel stress level (the vendor's
// "not enough data"/"in motion" markers) still counts as present and is
// stored as-is.
func ParseStress(raw json.RawMessage) (Reading, error) {
	var w stressWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse stress: %w", err)
	}

	points := make([]models.TimeSeriesPoint, 0, len(w.StressValuesArray))
	for _, r := range w.StressValuesArray {
		if r.StressLevel == nil {
			continue
		}
		point := models.TimeSeriesPoint{Kind: models.KindStress, TimestampMS: r.Timestamp, Value: float64(*r.StressLevel)}
		if r.StressCategory != nil {
			point.Meta = map[string]any{"stress_category": *r.StressCategory}
		}
		points = append(points, point)
	}

	return Reading{
		Kind: models.KindStress,
		Summary: &models.DailyHealthRow{
			AvgStressLevel: w.AverageStressLevel,
			MaxStressLevel: w.MaxStressLevel,
		},
		Points: points,
	}, nil
}

type bodyBatteryReading struct {
	Timestamp int64   `json:"timestamp"`
	Level     *int64  `json:"level"`
	Status    *string `json:"status"`
	Version   *int64  `json:"version"`
}

type bodyBatteryWire struct {
	BodyBatteryHighestValue *int64               `json:"bodyBatteryHighestValue"`
	BodyBatteryLowestValue  *int64               `json:"bodyBatteryLowestValue"`
	BodyBatteryValuesArray  []bodyBatteryReading `json:"bodyBatteryValuesArray"`
}

// ParseBodyBattery maps the body battery endpoint onto a summary row
// plus its intraday timeseries.
func ParseBodyBattery(raw json.RawMessage) (Reading, error) {
	var w bodyBatteryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse body battery: %w", err)
	}

	points := make([]models.TimeSeriesPoint, 0, len(w.BodyBatteryValuesArray))
	for _, r := range w.BodyBatteryValuesArray {
		if r.Level == nil {
			continue
		}
		point := models.TimeSeriesPoint{Kind: models.KindBodyBattery, TimestampMS: r.Timestamp, Value: float64(*r.Level)}
		meta := map[string]any{}
		if r.Status != nil {
			meta["status"] = *r.Status
		}
		if r.Version != nil {
			meta["version"] = *r.Version
		}
		if len(meta) > 0 {
			point.Meta = meta
		}
		points = append(points, point)
	}

	return Reading{
		Kind: models.KindBodyBattery,
		Summary: &models.DailyHealthRow{
			BodyBatteryHigh: w.BodyBatteryHighestValue,
			BodyBatteryLow:  w.BodyBatteryLowestValue,
		},
		Points: points,
	}, nil
}
