package mcpserver

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/arborhealth/vitalsync/internal/models"
	"github.com/arborhealth/vitalsync/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "mcpserver_test.db"))
	if err != nil {
		t.Fatalf("storage.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewServer(db, 1)
}

func strPtr(s string) *string { return &s }

func TestHandleListActivitiesFiltersByTypeAndLimit(t *testing.T) {
	s := newTestServer(t)

	for i, activityType := range []string{"running", "cycling", "running"} {
		a := &models.Activity{
			UserID:       1,
			ActivityID:   "act" + strconv.Itoa(i),
			ActivityDate: "2026-01-0" + strconv.Itoa(i+1),
			ActivityType: strPtr(activityType),
		}
		if err := s.store.UpsertActivity(a); err != nil {
			t.Fatalf("UpsertActivity() error: %v", err)
		}
	}

	_, result, err := s.handleListActivities(context.Background(), nil, listActivitiesInput{
		UserID: 1, Start: "2026-01-01", End: "2026-01-31", ActivityType: "running",
	})
	if err != nil {
		t.Fatalf("handleListActivities() error: %v", err)
	}
	acts, ok := result.([]*models.Activity)
	if !ok || len(acts) != 2 {
		t.Fatalf("result = %+v, want 2 running activities", result)
	}
}

func TestHandleGetDailyHealthReportsEmptyRange(t *testing.T) {
	s := newTestServer(t)

	_, result, err := s.handleGetDailyHealth(context.Background(), nil, getDailyHealthInput{
		UserID: 1, Start: "2026-01-01", End: "2026-01-31",
	})
	if err != nil {
		t.Fatalf("handleGetDailyHealth() error: %v", err)
	}
	if _, ok := result.(map[string]any); !ok {
		t.Errorf("result = %+v (%T), want the empty-range message map", result, result)
	}
}

func TestHandleGetTimeseriesRejectsUnknownKind(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleGetTimeseries(context.Background(), nil, getTimeseriesInput{
		UserID: 1, Kind: "not_a_real_kind", StartMS: 0, EndMS: 1,
	})
	if err == nil {
		t.Error("handleGetTimeseries() error = nil, want error for unknown kind")
	}
}

func TestHandleGetTimeseriesRejectsKindWithoutTimeseries(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleGetTimeseries(context.Background(), nil, getTimeseriesInput{
		UserID: 1, Kind: string(models.KindActivities), StartMS: 0, EndMS: 1,
	})
	if err == nil {
		t.Error("handleGetTimeseries() error = nil, want error for a kind with no timeseries")
	}
}

func TestHandleGetTimeseriesReturnsStoredPoints(t *testing.T) {
	s := newTestServer(t)

	points := []models.TimeSeriesPoint{
		{UserID: 1, Kind: models.KindHeartRate, TimestampMS: 1000, Value: 72},
		{UserID: 1, Kind: models.KindHeartRate, TimestampMS: 2000, Value: 75},
	}
	if err := s.store.StoreTimeseriesBatch(1, models.KindHeartRate, points); err != nil {
		t.Fatalf("StoreTimeseriesBatch() error: %v", err)
	}

	_, result, err := s.handleGetTimeseries(context.Background(), nil, getTimeseriesInput{
		UserID: 1, Kind: string(models.KindHeartRate), StartMS: 0, EndMS: 3000,
	})
	if err != nil {
		t.Fatalf("handleGetTimeseries() error: %v", err)
	}
	got, ok := result.([]models.TimeSeriesPoint)
	if !ok || len(got) != 2 {
		t.Fatalf("result = %+v, want 2 points", result)
	}
}
