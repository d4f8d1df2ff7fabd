package classifier

import (
	"context"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/ports"
	"sync"
)

// MockClassifier returns a canned result and records how often it was called.
type MockClassifier struct {
	Result ports.Classification
	Err    error

	mu    sync.Mutex
	calls int
}

func NewMockClassifier(result ports.Classification, err error) *MockClassifier {
	return &MockClassifier{Result: result, Err: err}
}

func (m *MockClassifier) Classify(ctx context.Context, photo *domain.Photo) (ports.Classification, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.Classification{}, err
	}
	if m.Err != nil {
		return ports.Classification{}, m.Err
	}
	return m.Result, nil
}

func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
