package metrics

import (
	"testing"

	"github.com/arborhealth/vitalsync/internal/models"
)

func TestParseDailySummary(t *testing.T) {
	raw := []byte(`{"totalSteps": 8000, "dailyStepGoal": 10000, "restingHeartRate": 55, "averageStressLevel": 20}`)
	reading, err := ParseDailySummary(raw)
	if err != nil {
		t.Fatalf("ParseDailySummary() error: %v", err)
	}
	row := reading.Summary
	if row.TotalSteps == nil || *row.TotalSteps != 8000 {
		t.Errorf("TotalSteps = %v, want 8000", row.TotalSteps)
	}
	if row.RestingHeartRate == nil || *row.RestingHeartRate != 55 {
		t.Errorf("RestingHeartRate = %v, want 55", row.RestingHeartRate)
	}
	if row.AvgStressLevel == nil || *row.AvgStressLevel != 20 {
		t.Errorf("AvgStressLevel = %v, want 20", row.AvgStressLevel)
	}
}

func TestParseHeartRateSkipsNullBPM(t *testing.T) {
	raw := []byte(`{
		"restingHeartRate": 55,
		"heartRateValues": [[1000, 60], [2000, null], [3000, 65]]
	}`)
	reading, err := ParseHeartRate(raw)
	if err != nil {
		t.Fatalf("ParseHeartRate() error: %v", err)
	}
	if len(reading.Points) != 2 {
		t.Fatalf("len(Points) = %d, want 2", len(reading.Points))
	}
	if reading.Points[0].TimestampMS != 1000 || reading.Points[0].Value != 60 {
		t.Errorf("Points[0] = %+v", reading.Points[0])
	}
	if reading.Points[1].TimestampMS != 3000 || reading.Points[1].Value != 65 {
		t.Errorf("Points[1] = %+v", reading.Points[1])
	}
	if reading.Summary.RestingHeartRate == nil || *reading.Summary.RestingHeartRate != 55 {
		t.Errorf("RestingHeartRate = %v, want 55", reading.Summary.RestingHeartRate)
	}
}

func TestParseHRVEmptyWhenAbsent(t *testing.T) {
	reading, err := ParseHRV([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseHRV() error: %v", err)
	}
	if reading.Summary.HRVWeeklyAvg != nil || reading.Summary.HRVStatus != nil {
		t.Errorf("expected empty row when hrvSummary is absent, got %+v", reading.Summary)
	}
}

func TestParseStressStoresNegativeSentinel(t *testing.T) {
	raw := []byte(`{
		"averageStressLevel": 20,
		"maxStressLevel": 80,
		"stressValuesArray": [
			{"timestamp": 1000, "stressLevel": -1, "stressCategory": "rest"},
			{"timestamp": 2000, "stressLevel": 35}
		]
	}`)
	reading, err := ParseStress(raw)
	if err != nil {
		t.Fatalf("ParseStress() error: %v", err)
	}
	if len(reading.Points) != 2 {
		t.Fatalf("len(Points) = %d, want 2", len(reading.Points))
	}
	if reading.Points[0].Value != -1 {
		t.Errorf("Points[0].Value = %v, want -1 (sentinel kept as-is)", reading.Points[0].Value)
	}
	if reading.Points[0].Meta["stress_category"] != "rest" {
		t.Errorf("Points[0].Meta = %v, want stress_category=rest", reading.Points[0].Meta)
	}
}

func TestExtractActivityTypeBothSpellings(t *testing.T) {
	snake := map[string]any{"activity_type": map[string]any{"type_key": "running"}}
	a := ExtractActivity(snake)
	if a.ActivityType == nil || *a.ActivityType != "running" {
		t.Errorf("snake_case activityType = %v, want running", a.ActivityType)
	}

	camel := map[string]any{"activityType": map[string]any{"typeKey": "cycling"}}
	b := ExtractActivity(camel)
	if b.ActivityType == nil || *b.ActivityType != "cycling" {
		t.Errorf("camelCase activityType = %v, want cycling", b.ActivityType)
	}
}

func TestParseExerciseSetsPicksHighestProbabilityExercise(t *testing.T) {
	raw := []byte(`{
		"exerciseSets": [{
			"setType": "ACTIVE",
			"repetitionCount": 10,
			"weight": 50000,
			"exercises": [
				{"category": "CURL", "name": "BICEP_CURL", "probability": 0.2},
				{"category": "BENCH_PRESS", "name": "BARBELL_BENCH_PRESS", "probability": 0.8}
			]
		}]
	}`)
	sets, err := ParseExerciseSets("act1", raw)
	if err != nil {
		t.Fatalf("ParseExerciseSets() error: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("len(sets) = %d, want 1", len(sets))
	}
	if sets[0].ExerciseCategory == nil || *sets[0].ExerciseCategory != "BENCH_PRESS" {
		t.Errorf("ExerciseCategory = %v, want BENCH_PRESS", sets[0].ExerciseCategory)
	}
	if sets[0].SetOrder != 0 {
		t.Errorf("SetOrder = %d, want 0", sets[0].SetOrder)
	}
}

func TestParseActivitySplits(t *testing.T) {
	raw := []byte(`{
		"lapDTOs": [
			{"lapIndex": 1, "distance": 1000, "intensityType": "ACTIVE", "averageHR": 140}
		]
	}`)
	splits, err := ParseActivitySplits("act1", raw)
	if err != nil {
		t.Fatalf("ParseActivitySplits() error: %v", err)
	}
	if len(splits) != 1 {
		t.Fatalf("len(splits) = %d, want 1", len(splits))
	}
	if splits[0].DistanceMeters == nil || *splits[0].DistanceMeters != 1000 {
		t.Errorf("DistanceMeters = %v, want 1000", splits[0].DistanceMeters)
	}
	if splits[0].AvgHeartRate == nil || *splits[0].AvgHeartRate != 140 {
		t.Errorf("AvgHeartRate = %v, want 140", splits[0].AvgHeartRate)
	}
}

func TestParseBodyCompositionRequiresSamplePK(t *testing.T) {
	raw := []byte(`{
		"dailyWeightSummaries": [
			{
				"calendarDate": "2026-01-01",
				"latestWeight": {"samplePk": 123456, "weight": 70000, "bmi": 21.5}
			},
			{
				"calendarDate": "2026-01-02",
				"latestWeight": {"weight": 70500}
			}
		]
	}`)
	reading, err := ParseBodyComposition(raw)
	if err != nil {
		t.Fatalf("ParseBodyComposition() error: %v", err)
	}
	entries := reading.BodyComp
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 (second entry lacks samplePk)", len(entries))
	}
	if entries[0].SamplePK != "123456" {
		t.Errorf("SamplePK = %q, want 123456", entries[0].SamplePK)
	}
	if entries[0].WeightGrams == nil || *entries[0].WeightGrams != 70000 {
		t.Errorf("WeightGrams = %v, want 70000", entries[0].WeightGrams)
	}
}

func TestRegistryDescriptorsHaveParseExceptActivities(t *testing.T) {
	for kind, desc := range Registry {
		if kind == models.KindActivities {
			if desc.Parse != nil {
				t.Errorf("KindActivities descriptor should have a nil Parse (extracted via ExtractActivity instead)")
			}
			continue
		}
		if desc.Parse == nil {
			t.Errorf("%s descriptor has no Parse func", kind)
		}
	}
}
