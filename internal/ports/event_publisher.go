package ports

import (
	"context"
	"field-survey-service/internal/domain"
)

// Optional notification sink for collection changes.
type EventPublisher interface {
	PointCaptured(ctx context.Context, p *domain.CapturedPoint) error
	PointDeleted(ctx context.Context, id string) error
}
