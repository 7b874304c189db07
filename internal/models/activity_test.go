package models

import "testing"

func ptrInt64(v int64) *int64     { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string   { return &v }

func TestCalculateStrengthSummary(t *testing.T) {
	active := "ACTIVE"
	rest := "REST"
	sets := []ExerciseSet{
		{SetType: &active, RepetitionCount: ptrInt64(10), WeightGrams: ptrFloat64(50000)},
		{SetType: &active, RepetitionCount: ptrInt64(8), WeightGrams: ptrFloat64(55000)},
		{SetType: &active, RepetitionCount: ptrInt64(6), WeightGrams: ptrFloat64(60000)},
		{SetType: &rest, RepetitionCount: ptrInt64(0)},
	}

	s := CalculateStrengthSummary(sets)
	if s.TotalSets != 3 {
		t.Errorf("TotalSets = %d, want 3", s.TotalSets)
	}
	if s.TotalReps != 24 {
		t.Errorf("TotalReps = %d, want 24", s.TotalReps)
	}
	if s.TotalWeightKg != 1300.0 {
		t.Errorf("TotalWeightKg = %v, want 1300.0", s.TotalWeightKg)
	}
}

func TestCalculateSplitsSummary(t *testing.T) {
	active := "ACTIVE"
	splits := []ActivitySplit{
		{IntensityType: &active, DistanceMeters: ptrFloat64(1000), DurationSeconds: ptrFloat64(300)},
		{IntensityType: &active, DistanceMeters: ptrFloat64(1000), DurationSeconds: ptrFloat64(300)},
	}
	s := CalculateSplitsSummary(splits)
	if s.TotalDistanceMeters != 2000 {
		t.Errorf("TotalDistanceMeters = %v, want 2000", s.TotalDistanceMeters)
	}
	if s.AvgPaceMinPerKm != 5.0 {
		t.Errorf("AvgPaceMinPerKm = %v, want 5.0", s.AvgPaceMinPerKm)
	}
}

func TestActivityTypeClassification(t *testing.T) {
	strength := "strength_training"
	a := &Activity{ActivityType: &strength}
	if !a.IsStrength() {
		t.Errorf("expected strength_training to be classified as strength")
	}
	if a.IsCardio() {
		t.Errorf("expected strength_training to not be classified as cardio")
	}

	cardio := "cycling"
	b := &Activity{ActivityType: &cardio}
	if !b.IsCardio() {
		t.Errorf("expected cycling to be classified as cardio")
	}
}

func TestDailyHealthRowMergeNonNil(t *testing.T) {
	row := &DailyHealthRow{UserID: 1, Date: "2026-01-01", TotalSteps: ptrInt64(100)}
	update := &DailyHealthRow{TotalSteps: nil, RestingHeartRate: ptrInt64(55)}

	row.MergeNonNil(update)

	if row.TotalSteps == nil || *row.TotalSteps != 100 {
		t.Errorf("TotalSteps should be untouched by a nil update, got %v", row.TotalSteps)
	}
	if row.RestingHeartRate == nil || *row.RestingHeartRate != 55 {
		t.Errorf("RestingHeartRate should be set from the update")
	}
}

func TestSyncStateIsTerminal(t *testing.T) {
	if !StateCompleted.IsTerminal(false) {
		t.Errorf("COMPLETED should always be terminal")
	}
	if StateSkipped.IsTerminal(false) {
		t.Errorf("SKIPPED should not be terminal by default")
	}
	if !StateSkipped.IsTerminal(true) {
		t.Errorf("SKIPPED should be terminal when skipOnSkipped is set")
	}
	if StateFailed.IsTerminal(true) {
		t.Errorf("FAILED should never be terminal")
	}
}

var _ = ptrString
