package events

import (
	"context"
	"field-survey-service/internal/domain"
)

// NoopPublisher discards events. Used when NATS_URL is unset.
type NoopPublisher struct{}

func (NoopPublisher) PointCaptured(context.Context, *domain.CapturedPoint) error { return nil }

func (NoopPublisher) PointDeleted(context.Context, string) error { return nil }
