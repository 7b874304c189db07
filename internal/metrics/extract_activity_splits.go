package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

type lapWire struct {
	LapIndex           *int64   `json:"lapIndex"`
	StartTimeGMT       *string  `json:"startTimeGMT"`
	Duration           *float64 `json:"duration"`
	MovingDuration     *float64 `json:"movingDuration"`
	Distance           *float64 `json:"distance"`
	AverageSpeed       *float64 `json:"averageSpeed"`
	MaxSpeed           *float64 `json:"maxSpeed"`
	AverageMovingSpeed *float64 `json:"averageMovingSpeed"`
	ElevationGain      *float64 `json:"elevationGain"`
	ElevationLoss      *float64 `json:"elevationLoss"`
	MaxElevation       *float64 `json:"maxElevation"`
	MinElevation       *float64 `json:"minElevation"`
	AverageRunCadence  *float64 `json:"averageRunCadence"`
	MaxRunCadence      *float64 `json:"maxRunCadence"`
	Calories           *float64 `json:"calories"`
	StartLatitude      *float64 `json:"startLatitude"`
	StartLongitude     *float64 `json:"startLongitude"`
	EndLatitude        *float64 `json:"endLatitude"`
	EndLongitude       *float64 `json:"endLongitude"`
	IntensityType      *string  `json:"intensityType"`
	AverageHR          *float64 `json:"averageHR"`
	MaxHR              *float64 `json:"maxHR"`
}

type lapsWire struct {
	LapDTOs []lapWire `json:"lapDTOs"`
}

// ParseActivitySplits maps the raw lapDTOs[] array from an
// activity-details response onto ActivitySplit rows. LapIndex is
// 1-indexed, matching the vendor's own lapIndex field.
func ParseActivitySplits(activityID string, raw json.RawMessage) ([]models.ActivitySplit, error) {
	var w lapsWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse activity splits: %w", err)
	}

	out := make([]models.ActivitySplit, 0, len(w.LapDTOs))
	for _, l := range w.LapDTOs {
		idx := int64(0)
		if l.LapIndex != nil {
			idx = *l.LapIndex
		}
		split := models.ActivitySplit{
			ActivityID:            activityID,
			LapIndex:              idx,
			StartTime:             l.StartTimeGMT,
			DurationSeconds:       l.Duration,
			MovingDurationSeconds: l.MovingDuration,
			DistanceMeters:        l.Distance,
			AvgSpeed:              l.AverageSpeed,
			MaxSpeed:              l.MaxSpeed,
			AvgMovingSpeed:        l.AverageMovingSpeed,
			ElevationGain:         l.ElevationGain,
			ElevationLoss:         l.ElevationLoss,
			MaxElevation:          l.MaxElevation,
			MinElevation:          l.MinElevation,
			AvgCadence:            l.AverageRunCadence,
			MaxCadence:            l.MaxRunCadence,
			Calories:              l.Calories,
			StartLatitude:         l.StartLatitude,
			StartLongitude:        l.StartLongitude,
			EndLatitude:           l.EndLatitude,
			EndLongitude:          l.EndLongitude,
			IntensityType:         l.IntensityType,
		}
		if l.AverageHR != nil {
			v := int64(*l.AverageHR)
			split.AvgHeartRate = &v
		}
		if l.MaxHR != nil {
			v := int64(*l.MaxHR)
			split.MaxHeartRate = &v
		}
		out = append(out, split)
	}
	return out, nil
}
