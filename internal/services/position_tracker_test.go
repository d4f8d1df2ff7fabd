package services

import (
	"errors"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/geo"
	"testing"
	"time"
)

func TestPositionTrackerLatest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewPositionTracker(func() time.Time { return now })

	if _, err := tr.Latest(time.Minute); !errors.Is(err, ErrNoFix) {
		t.Fatalf("err = %v, want ErrNoFix before any sample", err)
	}

	fix, err := tr.Update(domain.GeographicPosition{Latitude: 19.4326, Longitude: -99.1332, Accuracy: 5})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if fix.Projected.Zone != 14 || fix.Projected.Band != "Q" {
		t.Fatalf("projected = %+v, want zone 14 band Q", fix.Projected)
	}

	got, err := tr.Latest(time.Minute)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != fix {
		t.Fatalf("Latest = %+v, want %+v", got, fix)
	}

	now = now.Add(2 * time.Minute)
	if _, err := tr.Latest(time.Minute); !errors.Is(err, ErrNoFix) {
		t.Fatalf("err = %v, want ErrNoFix for stale fix", err)
	}
	if _, err := tr.Latest(0); err != nil {
		t.Fatalf("Latest(0) = %v, want no age check", err)
	}
}

func TestPositionTrackerRejectsInvalidSample(t *testing.T) {
	tr := NewPositionTracker(nil)

	if _, err := tr.Update(domain.GeographicPosition{Latitude: 91}); !errors.Is(err, geo.ErrInvalidPosition) {
		t.Fatalf("err = %v, want ErrInvalidPosition", err)
	}
	if _, err := tr.Latest(0); !errors.Is(err, ErrNoFix) {
		t.Fatalf("invalid sample must not become the current fix")
	}
}
