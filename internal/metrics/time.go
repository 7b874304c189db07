package metrics

import "time"

func epochToISO(sec, nsec int64) string {
	return time.Unix(sec, nsec).UTC().Format(time.RFC3339)
}

func isoFromEpochMillis(ms int64) string {
	sec := ms / 1000
	nsec := (ms % 1000) * int64(1e6)
	return epochToISO(sec, nsec)
}

// hoursFromSecondsPtr converts a duration in seconds to hours, returning
// nil for a missing or zero/negative input (a zero value means "not
// reported", not "zero duration").
func hoursFromSecondsPtr(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	hours := *v / 3600
	return &hours
}
