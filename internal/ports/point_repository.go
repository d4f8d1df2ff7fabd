package ports

import (
	"context"
	"errors"
	"field-survey-service/internal/domain"
)

var (
	ErrPointNotFound = errors.New("point not found")
	ErrPointExists   = errors.New("point already exists")
)

// Port: the ordered collection of captured points.
type PointRepository interface {
	// Return all points, most recently captured first.
	ListPoints(ctx context.Context) ([]domain.CapturedPoint, error)
	// Return a single point or ErrPointNotFound.
	GetPoint(ctx context.Context, id string) (*domain.CapturedPoint, error)
	// Persist a newly captured point. Points are immutable, so an id that is
	// already stored fails with ErrPointExists.
	SavePoint(ctx context.Context, p *domain.CapturedPoint) error
	// Remove a point, returning ErrPointNotFound if it does not exist.
	DeletePoint(ctx context.Context, id string) error
	// Replace the whole collection (bulk import).
	ReplaceAll(ctx context.Context, points []domain.CapturedPoint) error
}
