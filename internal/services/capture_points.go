package services

import (
	"context"
	"errors"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/geo"
	"field-survey-service/internal/platform/metrics"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CaptureRequest struct {
	Draft domain.PointDraft
	// Explicit capture position. When nil the tracker's current fix is used.
	Position *domain.GeographicPosition
}

// CaptureService stamps drafts into captured points and manages the collection.
type CaptureService struct {
	Repo      ports.PointRepository
	Events    ports.EventPublisher
	Tracker   *PositionTracker
	MaxFixAge time.Duration

	NewID func() string
	Now   func() time.Time
}

func NewCaptureService(
	repo ports.PointRepository,
	events ports.EventPublisher,
	tracker *PositionTracker,
	maxFixAge time.Duration,
) *CaptureService {
	return &CaptureService{
		Repo:      repo,
		Events:    events,
		Tracker:   tracker,
		MaxFixAge: maxFixAge,
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

// CapturePoint creates a point at the requested (or current) position and stores it.
func (s *CaptureService) CapturePoint(ctx context.Context, req CaptureRequest) (_ *domain.CapturedPoint, err error) {
	defer obs.Time(ctx, "capture.CapturePoint")(&err)

	if strings.TrimSpace(req.Draft.Name) == "" {
		return nil, fmt.Errorf("capture point: name is required: %w", ErrValidation)
	}

	var (
		position  domain.GeographicPosition
		projected domain.ProjectedCoordinate
	)
	if req.Position != nil {
		position = *req.Position
		projected, err = geo.ProjectPosition(position)
		if err != nil {
			return nil, fmt.Errorf("capture point: %w", err)
		}
	} else {
		if s.Tracker == nil {
			return nil, fmt.Errorf("capture point: %w", ErrNoFix)
		}
		fix, err := s.Tracker.Latest(s.MaxFixAge)
		if err != nil {
			return nil, fmt.Errorf("capture point: %w", err)
		}
		position, projected = fix.Position, fix.Projected
	}

	p, err := domain.NewCapturedPoint(s.NewID(), req.Draft, position, projected, s.Now())
	if err != nil {
		return nil, fmt.Errorf("capture point: %v: %w", err, ErrValidation)
	}

	if err := s.Repo.SavePoint(ctx, p); err != nil {
		return nil, fmt.Errorf("capture point: %w", err)
	}
	metrics.PointsCaptured.WithLabelValues(string(p.Category)).Inc()

	if s.Events != nil {
		if err := s.Events.PointCaptured(ctx, p); err != nil {
			obs.Logger(ctx).WithError(err).WithField("point_id", p.ID).Warn("publish point captured failed")
		}
	}

	return p, nil
}

// Return all points, most recently captured first.
func (s *CaptureService) ListPoints(ctx context.Context) ([]domain.CapturedPoint, error) {
	points, err := s.Repo.ListPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	return points, nil
}

func (s *CaptureService) GetPoint(ctx context.Context, id string) (*domain.CapturedPoint, error) {
	p, err := s.Repo.GetPoint(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get point: %w", err)
	}
	return p, nil
}

// DeletePoint removes a point; the rest of the collection keeps its order.
func (s *CaptureService) DeletePoint(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "capture.DeletePoint")(&err)

	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete point: id is required: %w", ErrValidation)
	}

	if err := s.Repo.DeletePoint(ctx, id); err != nil {
		if errors.Is(err, ports.ErrPointNotFound) {
			return err
		}
		return fmt.Errorf("delete point: %w", err)
	}
	metrics.PointsDeleted.Inc()

	if s.Events != nil {
		if err := s.Events.PointDeleted(ctx, id); err != nil {
			obs.Logger(ctx).WithError(err).WithField("point_id", id).Warn("publish point deleted failed")
		}
	}

	return nil
}
