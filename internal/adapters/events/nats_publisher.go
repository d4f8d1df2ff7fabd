package events

import (
	"context"
	"encoding/json"
	"field-survey-service/internal/domain"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectPointCaptured = "survey.points.captured"
	SubjectPointDeleted  = "survey.points.deleted"
)

// NATSPublisher implements ports.EventPublisher with core NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("field-survey-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Summary of a captured point. Photos are never published.
type pointCapturedEvent struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Category   domain.Category            `json:"type"`
	CapturedAt int64                      `json:"timestamp"`
	Coords     domain.GeographicPosition  `json:"coords"`
	UTM        domain.ProjectedCoordinate `json:"utm"`
	HasPhoto   bool                       `json:"has_photo"`
}

type pointDeletedEvent struct {
	ID string `json:"id"`
}

func capturedPayload(p *domain.CapturedPoint) ([]byte, error) {
	return json.Marshal(pointCapturedEvent{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		CapturedAt: p.CapturedAtEpochMillis,
		Coords:     p.Position,
		UTM:        p.Projected,
		HasPhoto:   p.Photo != nil,
	})
}

func (p *NATSPublisher) PointCaptured(ctx context.Context, pt *domain.CapturedPoint) error {
	data, err := capturedPayload(pt)
	if err != nil {
		return fmt.Errorf("publish point captured: %w", err)
	}
	if err := p.conn.Publish(SubjectPointCaptured, data); err != nil {
		return fmt.Errorf("publish point captured: %w", err)
	}
	return nil
}

func (p *NATSPublisher) PointDeleted(ctx context.Context, id string) error {
	data, err := json.Marshal(pointDeletedEvent{ID: id})
	if err != nil {
		return fmt.Errorf("publish point deleted: %w", err)
	}
	if err := p.conn.Publish(SubjectPointDeleted, data); err != nil {
		return fmt.Errorf("publish point deleted: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}
