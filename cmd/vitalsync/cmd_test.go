// ABOUTME: Tests for CLI helper functions.
// ABOUTME: Tests resolveSyncRange, resolveKinds, and trimNewline.
package main

import (
	"testing"

	"github.com/arborhealth/vitalsync/internal/models"
)

func TestResolveSyncRangeExplicit(t *testing.T) {
	start, end, err := resolveSyncRange("2026-01-01", "2026-01-31", 0)
	if err != nil {
		t.Fatalf("resolveSyncRange() error: %v", err)
	}
	if start != "2026-01-01" || end != "2026-01-31" {
		t.Errorf("got (%s, %s), want (2026-01-01, 2026-01-31)", start, end)
	}
}

func TestResolveSyncRangeRequiresBothBounds(t *testing.T) {
	if _, _, err := resolveSyncRange("2026-01-01", "", 0); err == nil {
		t.Error("resolveSyncRange() error = nil, want error for lone --start")
	}
	if _, _, err := resolveSyncRange("", "2026-01-31", 0); err == nil {
		t.Error("resolveSyncRange() error = nil, want error for lone --end")
	}
}

func TestResolveSyncRangeDaysLookback(t *testing.T) {
	start, end, err := resolveSyncRange("", "", 7)
	if err != nil {
		t.Fatalf("resolveSyncRange() error: %v", err)
	}
	if start == "" || end == "" || start > end {
		t.Errorf("got (%s, %s), want a valid non-empty ordered range", start, end)
	}
}

func TestResolveKindsDefaultsToAll(t *testing.T) {
	kinds, err := resolveKinds(nil)
	if err != nil {
		t.Fatalf("resolveKinds() error: %v", err)
	}
	if len(kinds) != len(models.AllMetricKinds) {
		t.Errorf("len(kinds) = %d, want %d", len(kinds), len(models.AllMetricKinds))
	}
}

func TestResolveKindsFiltersByName(t *testing.T) {
	kinds, err := resolveKinds([]string{"heart_rate", "activities"})
	if err != nil {
		t.Fatalf("resolveKinds() error: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != models.KindHeartRate || kinds[1] != models.KindActivities {
		t.Errorf("got %v, want [heart_rate activities]", kinds)
	}
}

func TestResolveKindsRejectsUnknown(t *testing.T) {
	if _, err := resolveKinds([]string{"not_a_real_kind"}); err == nil {
		t.Error("resolveKinds() error = nil, want error for unknown kind")
	}
}

func TestResolveExportRangeDefaultsToLast30Days(t *testing.T) {
	start, end, err := resolveExportRange("", "")
	if err != nil {
		t.Fatalf("resolveExportRange() error: %v", err)
	}
	if start == "" || end == "" || start > end {
		t.Errorf("got (%s, %s), want a valid non-empty ordered range", start, end)
	}
}

func TestResolveExportRangeRequiresBothBounds(t *testing.T) {
	if _, _, err := resolveExportRange("2026-01-01", ""); err == nil {
		t.Error("resolveExportRange() error = nil, want error for lone --start")
	}
	if _, _, err := resolveExportRange("", "2026-01-31"); err == nil {
		t.Error("resolveExportRange() error = nil, want error for lone --end")
	}
}

func TestResolveExportRangeExplicit(t *testing.T) {
	start, end, err := resolveExportRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("resolveExportRange() error: %v", err)
	}
	if start != "2026-01-01" || end != "2026-01-31" {
		t.Errorf("got (%s, %s), want (2026-01-01, 2026-01-31)", start, end)
	}
}

func TestTrimNewline(t *testing.T) {
	cases := map[string]string{
		"foo\n":   "foo",
		"foo\r\n": "foo",
		"foo":     "foo",
		"":        "",
	}
	for in, want := range cases {
		if got := trimNewline(in); got != want {
			t.Errorf("trimNewline(%q) = %q, want %q", in, got, want)
		}
	}
}
