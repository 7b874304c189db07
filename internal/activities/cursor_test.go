package activities

import (
	"context"
	"testing"

	"github.com/arborhealth/vitalsync/internal/models"
)

type fakeFetcher struct {
	all []models.Activity
}

func (f *fakeFetcher) FetchBatch(_ context.Context, offset, limit int) ([]models.Activity, error) {
	if offset >= len(f.all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.all) {
		end = len(f.all)
	}
	return f.all[offset:end], nil
}

func act(id, date string) models.Activity {
	return models.Activity{ActivityID: id, ActivityDate: date}
}

func TestCursorGroupsByDateNewestToOldest(t *testing.T) {
	fetcher := &fakeFetcher{all: []models.Activity{
		act("5", "2026-01-05"),
		act("4b", "2026-01-04"),
		act("4a", "2026-01-04"),
		act("2", "2026-01-02"),
		act("1", "2026-01-01"),
	}}
	c := NewCursor(fetcher, 2)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	got, err := c.ActivitiesForDate(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("ActivitiesForDate(01-05) error: %v", err)
	}
	if len(got) != 1 || got[0].ActivityID != "5" {
		t.Fatalf("01-05 = %+v, want [5]", got)
	}

	got, err = c.ActivitiesForDate(context.Background(), "2026-01-04")
	if err != nil {
		t.Fatalf("ActivitiesForDate(01-04) error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("01-04 = %+v, want 2 activities", got)
	}

	got, err = c.ActivitiesForDate(context.Background(), "2026-01-03")
	if err != nil {
		t.Fatalf("ActivitiesForDate(01-03) error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("01-03 = %+v, want none (no activities that day)", got)
	}

	got, err = c.ActivitiesForDate(context.Background(), "2026-01-01")
	if err != nil {
		t.Fatalf("ActivitiesForDate(01-01) error: %v", err)
	}
	if len(got) != 1 || got[0].ActivityID != "1" {
		t.Fatalf("01-01 = %+v, want [1]", got)
	}
}

func TestCursorHandlesEmptyFeed(t *testing.T) {
	fetcher := &fakeFetcher{}
	c := NewCursor(fetcher, 10)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	got, err := c.ActivitiesForDate(context.Background(), "2026-01-01")
	if err != nil {
		t.Fatalf("ActivitiesForDate() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d activities from an empty feed, want 0", len(got))
	}
}

func TestCursorResetRewalksFromStart(t *testing.T) {
	fetcher := &fakeFetcher{all: []models.Activity{
		act("2", "2026-01-02"),
		act("1", "2026-01-01"),
	}}
	c := NewCursor(fetcher, 1)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if _, err := c.ActivitiesForDate(context.Background(), "2026-01-02"); err != nil {
		t.Fatalf("ActivitiesForDate() error: %v", err)
	}
	if _, err := c.ActivitiesForDate(context.Background(), "2026-01-01"); err != nil {
		t.Fatalf("ActivitiesForDate() error: %v", err)
	}

	if err := c.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	got, err := c.ActivitiesForDate(context.Background(), "2026-01-02")
	if err != nil {
		t.Fatalf("ActivitiesForDate() after reset error: %v", err)
	}
	if len(got) != 1 || got[0].ActivityID != "2" {
		t.Fatalf("after reset, 01-02 = %+v, want [2]", got)
	}
}
