package services

import (
	"field-survey-service/internal/domain"
	"field-survey-service/internal/geo"
	"field-survey-service/internal/platform/metrics"
	"fmt"
	"sync"
	"time"
)

// A location sample together with its projection.
type PositionFix struct {
	Position   domain.GeographicPosition
	Projected  domain.ProjectedCoordinate
	ReceivedAt time.Time
}

// PositionTracker keeps the most recent location sample.
// Every new sample replaces the previous one.
type PositionTracker struct {
	mu     sync.RWMutex
	latest *PositionFix
	now    func() time.Time
}

func NewPositionTracker(now func() time.Time) *PositionTracker {
	if now == nil {
		now = time.Now
	}
	return &PositionTracker{now: now}
}

// Update validates and projects a sample and makes it the current fix.
func (t *PositionTracker) Update(p domain.GeographicPosition) (PositionFix, error) {
	projected, err := geo.ProjectPosition(p)
	if err != nil {
		return PositionFix{}, fmt.Errorf("update position: %w", err)
	}
	metrics.PositionsProjected.Inc()

	fix := PositionFix{Position: p, Projected: projected, ReceivedAt: t.now()}

	t.mu.Lock()
	t.latest = &fix
	t.mu.Unlock()

	return fix, nil
}

// Latest returns the current fix, or ErrNoFix when none exists or it is
// older than maxAge. A non-positive maxAge disables the age check.
func (t *PositionTracker) Latest(maxAge time.Duration) (PositionFix, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.latest == nil {
		return PositionFix{}, ErrNoFix
	}
	if maxAge > 0 {
		if age := t.now().Sub(t.latest.ReceivedAt); age > maxAge {
			return PositionFix{}, fmt.Errorf("fix is %s old: %w", age.Round(time.Second), ErrNoFix)
		}
	}
	return *t.latest, nil
}
