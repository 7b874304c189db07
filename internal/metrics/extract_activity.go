package metrics

import (
	"strconv"

	"github.com/arborhealth/vitalsync/internal/models"
)

// ExtractActivity maps one entry of the activities-list response onto
// an Activity row. Field names and casing vary by endpoint version, so
// every lookup tries both spellings; the activity type is nested under
// an "activityType" object with its own key-spelling variance. This is
// the one extractor kept on the dynamic map[string]any lookups in
// jsonutil.go rather than an explicit struct: every other kind
// canonicalizes on one camelCase wire shape (see the other
// extract_*.go files), but ACTIVITIES genuinely needs the dual-spelling
// tolerance this implements.
func ExtractActivity(raw map[string]any) *models.Activity {
	a := &models.Activity{
		ActivityName:    getString(raw, "activity_name", "activityName"),
		DurationSeconds: durationSeconds(raw),
		AvgHeartRate:    getInt(raw, "average_hr", "averageHR", "avgHR"),
		MaxHeartRate:    getInt(raw, "max_hr", "maxHR"),
		TrainingLoad:    getFloat(raw, "training_load", "activityTrainingLoad"),
		StartTime:       getString(raw, "start_time_local", "startTimeLocal", "start_time", "startTime"),
		DistanceMeters:  getFloat(raw, "distance", "distanceMeters"),
		Calories:        getInt(raw, "calories"),
		ElevationGain:   getFloat(raw, "elevation_gain", "elevationGain"),
		ElevationLoss:   getFloat(raw, "elevation_loss", "elevationLoss"),
		AvgSpeed:        getFloat(raw, "average_speed", "averageSpeed", "avgSpeed"),
		MaxSpeed:        getFloat(raw, "max_speed", "maxSpeed"),
		AvgPower:        getFloat(raw, "avg_power", "avgPower"),
		MaxPower:        getFloat(raw, "max_power", "maxPower"),
	}

	if id := getRawString(raw, "activity_id", "activityId"); id != "" {
		a.ActivityID = id
	}

	if t, ok := extractActivityType(raw); ok {
		a.ActivityType = &t
	}

	return a
}

func durationSeconds(raw map[string]any) *int64 {
	return getInt(raw, "duration", "movingDuration", "elapsedDuration")
}

func getRawString(m map[string]any, keys ...string) string {
	if s := getString(m, keys...); s != nil {
		return *s
	}
	// Some IDs arrive as numbers; stringify defensively.
	if v, ok := getRaw(m, keys...); ok {
		switch n := v.(type) {
		case float64:
			return formatFloatAsID(n)
		}
	}
	return ""
}

func extractActivityType(raw map[string]any) (string, bool) {
	if nested, ok := asMap(raw["activity_type"]); ok {
		if s := getString(nested, "type_key", "typeKey"); s != nil {
			return *s, true
		}
	}
	if nested, ok := asMap(raw["activityType"]); ok {
		if s := getString(nested, "typeKey"); s != nil {
			return *s, true
		}
	}
	return "", false
}

func formatFloatAsID(f float64) string {
	// Activity/sample IDs are large integers serialized as JSON numbers;
	// render without scientific notation or a trailing ".0".
	i := int64(f)
	if float64(i) != f {
		return ""
	}
	return strconv.FormatInt(i, 10)
}
