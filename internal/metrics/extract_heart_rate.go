package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

// heartRateSample decodes one [timestamp_ms, bpm] pair from the vendor's
// heartRateValues array. bpm arrives null for gaps in the recording, and
// a malformed pair (wrong length, non-numeric) is left with a nil
// TimestampMS rather than failing the whole array.
type heartRateSample struct {
	TimestampMS *int64
	BPM         *float64
}

func (s *heartRateSample) UnmarshalJSON(data []byte) error {
	var pair [2]*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil
	}
	if pair[0] != nil {
		ts := int64(*pair[0])
		s.TimestampMS = &ts
	}
	s.BPM = pair[1]
	return nil
}

type heartRateWire struct {
	RestingHeartRate *int64            `json:"restingHeartRate"`
	MinHeartRate     *int64            `json:"minHeartRate"`
	MaxHeartRate     *int64            `json:"maxHeartRate"`
	AverageHeartRate *int64            `json:"averageHeartRate"`
	HeartRateValues  []heartRateSample `json:"heartRateValues"`
}

// ParseHeartRate maps the daily heart rate endpoint onto a summary row
// plus its intraday timeseries, skipping samples with a null bpm or
// malformed timestamp.
func ParseHeartRate(raw json.RawMessage) (Reading, error) {
	var w heartRateWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse heart rate: %w", err)
	}

	points := make([]models.TimeSeriesPoint, 0, len(w.HeartRateValues))
	for _, s := range w.HeartRateValues {
		if s.TimestampMS == nil || s.BPM == nil {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Kind: models.KindHeartRate, TimestampMS: *s.TimestampMS, Value: *s.BPM})
	}

	return Reading{
		Kind: models.KindHeartRate,
		Summary: &models.DailyHealthRow{
			RestingHeartRate: w.RestingHeartRate,
			MinHeartRate:     w.MinHeartRate,
			MaxHeartRate:     w.MaxHeartRate,
			AverageHeartRate: w.AverageHeartRate,
		},
		Points: points,
	}, nil
}
