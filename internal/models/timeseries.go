package models

// TimeSeriesPoint is one high-frequency sample (heart rate, stress,
// body battery, respiration) at a millisecond-epoch timestamp.
type TimeSeriesPoint struct {
	UserID     int64
	Kind       MetricKind
	TimestampMS int64
	Value      float64
	Meta       map[string]any // e.g. {"status": ..., "version": ...}
}

// BodyCompositionEntry is a single smart-scale weigh-in.
type BodyCompositionEntry struct {
	UserID          int64
	SamplePK        string // vendor-unique ID, primary key
	MeasurementDate string // YYYY-MM-DD
	TimestampGMT    *string

	WeightGrams          *float64
	BMI                  *float64
	BodyFatPercentage    *float64
	BodyWaterPercentage  *float64
	BoneMassGrams        *float64
	MuscleMassGrams      *float64

	VisceralFat    *float64
	MetabolicAge   *int64
	PhysiqueRating *float64

	SourceType *string
}
