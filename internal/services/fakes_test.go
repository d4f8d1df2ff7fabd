package services

import (
	"context"
	"errors"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/ports"
	"sync"
)

// memRepo keeps points newest first, like the real repositories.
type memRepo struct {
	mu      sync.Mutex
	points  []domain.CapturedPoint
	saveErr error
}

func (r *memRepo) ListPoints(ctx context.Context) ([]domain.CapturedPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CapturedPoint(nil), r.points...), nil
}

func (r *memRepo) GetPoint(ctx context.Context, id string) (*domain.CapturedPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.points {
		if r.points[i].ID == id {
			p := r.points[i]
			return &p, nil
		}
	}
	return nil, ports.ErrPointNotFound
}

func (r *memRepo) SavePoint(ctx context.Context, p *domain.CapturedPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, q := range r.points {
		if q.ID == p.ID {
			return ports.ErrPointExists
		}
	}
	r.points = append([]domain.CapturedPoint{*p}, r.points...)
	return nil
}

func (r *memRepo) DeletePoint(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.points {
		if r.points[i].ID == id {
			r.points = append(r.points[:i], r.points[i+1:]...)
			return nil
		}
	}
	return ports.ErrPointNotFound
}

func (r *memRepo) ReplaceAll(ctx context.Context, points []domain.CapturedPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append([]domain.CapturedPoint(nil), points...)
	return nil
}

type recordingPublisher struct {
	captured []string
	deleted  []string
	err      error
}

func (p *recordingPublisher) PointCaptured(ctx context.Context, pt *domain.CapturedPoint) error {
	p.captured = append(p.captured, pt.ID)
	return p.err
}

func (p *recordingPublisher) PointDeleted(ctx context.Context, id string) error {
	p.deleted = append(p.deleted, id)
	return p.err
}

var errBroken = errors.New("broken")
