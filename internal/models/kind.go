// Package models holds the value types synced from the wearable vendor
// API into local storage: daily health summaries, activities and their
// strength/cardio detail, timeseries samples, body composition readings,
// and the sync status ledger.
package models

// MetricKind identifies a syncable metric type. Values match the wire
// names used by the status ledger and the vendor API endpoints.
type MetricKind string

const (
	KindDailySummary      MetricKind = "daily_summary"
	KindSleep             MetricKind = "sleep"
	KindActivities        MetricKind = "activities"
	KindBodyBattery       MetricKind = "body_battery"
	KindStress            MetricKind = "stress"
	KindHeartRate         MetricKind = "heart_rate"
	KindTrainingReadiness MetricKind = "training_readiness"
	KindHRV               MetricKind = "hrv"
	KindRespiration       MetricKind = "respiration"
	KindSteps             MetricKind = "steps"
	KindCalories          MetricKind = "calories"
	KindBodyComposition   MetricKind = "body_composition"
)

// AllMetricKinds lists every metric kind the sync engine knows about, in
// the order they are synced within a day (body composition and activities
// are handled by their own phases, not the per-day loop).
var AllMetricKinds = []MetricKind{
	KindDailySummary,
	KindSleep,
	KindBodyBattery,
	KindStress,
	KindHeartRate,
	KindTrainingReadiness,
	KindHRV,
	KindRespiration,
	KindSteps,
	KindCalories,
}

// HasTimeseries reports whether a kind also carries a high-frequency
// timeseries alongside its daily summary.
func (k MetricKind) HasTimeseries() bool {
	switch k {
	case KindBodyBattery, KindStress, KindHeartRate, KindRespiration:
		return true
	default:
		return false
	}
}
