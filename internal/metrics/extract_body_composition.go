package metrics

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/arborhealth/vitalsync/internal/models"
)

// flexibleID decodes a JSON value the vendor serializes inconsistently
// as either a string or a bare number (sample/weigh-in ids large enough
// to round-trip losslessly through float64).
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	i := int64(n)
	if float64(i) != n {
		return nil
	}
	*f = flexibleID(strconv.FormatInt(i, 10))
	return nil
}

type bodyCompositionWire struct {
	DailyWeightSummaries []struct {
		CalendarDate string `json:"calendarDate"`
		LatestWeight *struct {
			SamplePK       flexibleID `json:"samplePk"`
			Weight         *float64   `json:"weight"`
			BMI            *float64   `json:"bmi"`
			BodyFat        *float64   `json:"bodyFat"`
			BodyWater      *float64   `json:"bodyWater"`
			BoneMass       *float64   `json:"boneMass"`
			MuscleMass     *float64   `json:"muscleMass"`
			VisceralFat    *float64   `json:"visceralFat"`
			MetabolicAge   *int64     `json:"metabolicAge"`
			PhysiqueRating *float64   `json:"physiqueRating"`
			SourceType     *string    `json:"sourceType"`
			TimestampGMT   *int64     `json:"timestampGMT"`
		} `json:"latestWeight"`
	} `json:"dailyWeightSummaries"`
}

// ParseBodyComposition maps the weight-range endpoint's
// dailyWeightSummaries[].latestWeight entries onto BodyCompositionEntry
// rows, one per day that has a weigh-in. Entries without a samplePk are
// dropped — it is the vendor's unique id and doubles as our primary key.
func ParseBodyComposition(raw json.RawMessage) (Reading, error) {
	var w bodyCompositionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse body composition: %w", err)
	}

	out := make([]models.BodyCompositionEntry, 0, len(w.DailyWeightSummaries))
	for _, day := range w.DailyWeightSummaries {
		latest := day.LatestWeight
		if latest == nil || latest.SamplePK == "" {
			continue
		}
		entry := models.BodyCompositionEntry{
			SamplePK:            string(latest.SamplePK),
			MeasurementDate:     day.CalendarDate,
			WeightGrams:         latest.Weight,
			BMI:                 latest.BMI,
			BodyFatPercentage:   latest.BodyFat,
			BodyWaterPercentage: latest.BodyWater,
			BoneMassGrams:       latest.BoneMass,
			MuscleMassGrams:     latest.MuscleMass,
			VisceralFat:         latest.VisceralFat,
			MetabolicAge:        latest.MetabolicAge,
			PhysiqueRating:      latest.PhysiqueRating,
			SourceType:          latest.SourceType,
		}
		if latest.TimestampGMT != nil {
			iso := isoFromEpochMillis(*latest.TimestampGMT)
			entry.TimestampGMT = &iso
		}
		out = append(out, entry)
	}

	return Reading{Kind: models.KindBodyComposition, BodyComp: out}, nil
}
