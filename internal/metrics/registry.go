// Package metrics declares the metric-kind registry (C6) and the
// extraction functions that turn a raw vendor JSON payload into
// normalized storage rows (C7).
package metrics

import (
	"encoding/json"

	"github.com/arborhealth/vitalsync/internal/models"
)

// Descriptor statically describes one syncable metric kind: where to
// fetch it, how tolerant its fetch mode is, and how to turn its raw
// response into a Reading.
type Descriptor struct {
	Kind MetricKind

	// EndpointTemplate holds {date} and, if RequiresUserID, {user_id}
	// holes, e.g. "/usersummary-service/usersummary/daily/{user_id}?calendarDate={date}".
	EndpointTemplate string

	RequiresUserID bool

	// RangeMode endpoints accept {start_date}/{end_date} and return a
	// bundle for the whole range rather than one date at a time (used
	// by body composition).
	RangeMode bool

	// Parse turns one fetched JSON payload into a Reading. Nil for
	// ACTIVITIES, which is paginated and extracted by activities.Cursor
	// via ExtractActivity instead of the per-date fetch-extract-store
	// path that calls Parse.
	Parse func(raw json.RawMessage) (Reading, error)

	Description string
}

// MetricKind is an alias kept local to this package for descriptor
// wiring convenience; it is models.MetricKind under the hood.
type MetricKind = models.MetricKind

// Registry is the open-for-extension, closed-for-engine-modification
// table the sync engine consults. New kinds are added by appending a
// Descriptor, never by teaching the engine a new special case.
var Registry = map[MetricKind]Descriptor{
	models.KindDailySummary: {
		Kind:             models.KindDailySummary,
		EndpointTemplate: "/usersummary-service/usersummary/daily/{user_id}?calendarDate={date}",
		RequiresUserID:   true,
		Parse:            ParseDailySummary,
		Description:      "Daily activity/calorie/HR/stress/SpO2 summary",
	},
	models.KindSleep: {
		Kind:             models.KindSleep,
		EndpointTemplate: "/wellness-service/wellness/dailySleepData/{user_id}?date={date}",
		RequiresUserID:   true,
		Parse:            ParseSleep,
		Description:      "Sleep stages, score, bedtime/waketime",
	},
	models.KindBodyBattery: {
		Kind:             models.KindBodyBattery,
		EndpointTemplate: "/wellness-service/wellness/bodyBattery/reading?date={date}",
		RequiresUserID:   false,
		Parse:            ParseBodyBattery,
		Description:      "Body battery summary + intraday timeseries",
	},
	models.KindStress: {
		Kind:             models.KindStress,
		EndpointTemplate: "/wellness-service/wellness/dailyStress/{date}",
		RequiresUserID:   false,
		Parse:            ParseStress,
		Description:      "Stress level summary + intraday timeseries",
	},
	models.KindHeartRate: {
		Kind:             models.KindHeartRate,
		EndpointTemplate: "/wellness-service/wellness/dailyHeartRate/{user_id}?date={date}",
		RequiresUserID:   true,
		Parse:            ParseHeartRate,
		Description:      "Heart rate summary + intraday timeseries",
	},
	models.KindTrainingReadiness: {
		Kind:             models.KindTrainingReadiness,
		EndpointTemplate: "/metrics-service/metrics/trainingreadiness/{date}",
		RequiresUserID:   false,
		Parse:            ParseTrainingReadiness,
		Description:      "Training readiness score/level/feedback",
	},
	models.KindHRV: {
		Kind:             models.KindHRV,
		EndpointTemplate: "/hrv-service/hrv/{date}",
		RequiresUserID:   false,
		Parse:            ParseHRV,
		Description:      "Heart rate variability weekly/nightly status",
	},
	models.KindRespiration: {
		Kind:             models.KindRespiration,
		EndpointTemplate: "/wellness-service/wellness/daily/respiration/{date}",
		RequiresUserID:   false,
		Parse:            ParseRespiration,
		Description:      "Respiration summary + intraday timeseries",
	},
	models.KindSteps: {
		Kind:             models.KindSteps,
		EndpointTemplate: "/usersummary-service/usersummary/daily/{user_id}?calendarDate={date}",
		RequiresUserID:   true,
		Parse:            ParseSteps,
		Description:      "Step count/goal subset of the daily summary",
	},
	models.KindCalories: {
		Kind:             models.KindCalories,
		EndpointTemplate: "/usersummary-service/usersummary/daily/{user_id}?calendarDate={date}",
		RequiresUserID:   true,
		Parse:            ParseCalories,
		Description:      "Calorie subset of the daily summary",
	},
	models.KindBodyComposition: {
		Kind:             models.KindBodyComposition,
		EndpointTemplate: "/weight-service/weight/range/{start_date}/{end_date}?includeAll=true",
		RequiresUserID:   false,
		RangeMode:        true,
		Parse:            ParseBodyComposition,
		Description:      "Smart scale weigh-ins for the whole range",
	},
	models.KindActivities: {
		Kind:             models.KindActivities,
		EndpointTemplate: "/activitylist-service/activities/search/activities?start={offset}&limit={limit}",
		RequiresUserID:   false,
		Description:      "Paginated activities list (custom accessor, not per-date)",
	},
}
