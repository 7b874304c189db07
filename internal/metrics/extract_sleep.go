package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

type sleepWire struct {
	SleepSummary *struct {
		DeepSleepSeconds     *float64 `json:"deepSleepSeconds"`
		LightSleepSeconds    *float64 `json:"lightSleepSeconds"`
		RemSleepSeconds      *float64 `json:"remSleepSeconds"`
		AwakeSleepSeconds    *float64 `json:"awakeSleepSeconds"`
		SleepTimeSeconds     *float64 `json:"sleepTimeSeconds"`
		DeepSleepPercentage  *float64 `json:"deepSleepPercentage"`
		LightSleepPercentage *float64 `json:"lightSleepPercentage"`
		RemSleepPercentage   *float64 `json:"remSleepPercentage"`
		AwakePercentage      *float64 `json:"awakePercentage"`
		AverageSpo2Value     *float64 `json:"averageSpo2Value"`
	} `json:"sleepSummary"`
	SleepScores *struct {
		Overall *struct {
			Value        *int64  `json:"value"`
			QualifierKey *string `json:"qualifierKey"`
		} `json:"overall"`
	} `json:"sleepScores"`
	SleepNeed *struct {
		Actual *int64 `json:"actual"`
	} `json:"sleepNeed"`
	SleepStartTimestampLocal *int64   `json:"sleepStartTimestampLocal"`
	SleepEndTimestampLocal   *int64   `json:"sleepEndTimestampLocal"`
	SkinTempDeviationC       *float64 `json:"skinTempDeviationC"`
	AverageRespirationValue  *float64 `json:"averageRespirationValue"`
}

// ParseSleep maps the daily sleep endpoint's nested sleepSummary/
// sleepScores/sleepNeed structures onto a DailyHealthRow fragment. Stage
// durations arrive in seconds and are converted to hours only when
// positive (a zero value means "not reported", not "zero duration").
func ParseSleep(raw json.RawMessage) (Reading, error) {
	var w sleepWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("parse sleep: %w", err)
	}

	row := &models.DailyHealthRow{
		SkinTempDeviationC: w.SkinTempDeviationC,
		AverageRespiration: w.AverageRespirationValue,
	}

	if s := w.SleepSummary; s != nil {
		row.DeepSleepHours = hoursFromSecondsPtr(s.DeepSleepSeconds)
		row.LightSleepHours = hoursFromSecondsPtr(s.LightSleepSeconds)
		row.REMSleepHours = hoursFromSecondsPtr(s.RemSleepSeconds)
		row.AwakeHours = hoursFromSecondsPtr(s.AwakeSleepSeconds)
		row.DeepSleepPercentage = s.DeepSleepPercentage
		row.LightSleepPercentage = s.LightSleepPercentage
		row.REMSleepPercentage = s.RemSleepPercentage
		row.AwakePercentage = s.AwakePercentage
		row.AverageSpO2 = s.AverageSpo2Value
		if s.SleepTimeSeconds != nil && *s.SleepTimeSeconds > 0 {
			hours := *s.SleepTimeSeconds / 3600
			row.SleepDurationHours = &hours
		}
	}

	if w.SleepScores != nil && w.SleepScores.Overall != nil {
		row.SleepScore = w.SleepScores.Overall.Value
		row.SleepScoreQualifier = w.SleepScores.Overall.QualifierKey
	}

	if w.SleepNeed != nil {
		row.SleepNeedMinutes = w.SleepNeed.Actual
	}

	if w.SleepStartTimestampLocal != nil {
		iso := isoFromEpochMillis(*w.SleepStartTimestampLocal)
		row.SleepBedtime = &iso
	}
	if w.SleepEndTimestampLocal != nil {
		iso := isoFromEpochMillis(*w.SleepEndTimestampLocal)
		row.SleepWakeTime = &iso
	}

	return Reading{Kind: models.KindSleep, Summary: row}, nil
}
