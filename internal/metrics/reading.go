package metrics

import "github.com/arborhealth/vitalsync/internal/models"

// Reading is the tagged-union result of parsing one vendor JSON payload.
// Which fields carry data depends on Kind: STEPS/CALORIES only ever
// populate Summary (a subset merge onto the same DailyHealthRow as
// DAILY_SUMMARY); HEART_RATE/STRESS/BODY_BATTERY/RESPIRATION populate
// both Summary and Points from the one response; BODY_COMPOSITION only
// populates BodyComp. Activity is unused here — ACTIVITIES is extracted
// by ExtractActivity directly from the activities-list page, not through
// a Descriptor.Parse call (see registry.go).
type Reading struct {
	Kind     models.MetricKind
	Summary  *models.DailyHealthRow
	Points   []models.TimeSeriesPoint
	BodyComp []models.BodyCompositionEntry
	Activity *models.Activity
}
