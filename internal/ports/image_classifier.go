package ports

import (
	"context"
	"errors"
	"field-survey-service/internal/domain"
)

var ErrClassifierUnavailable = errors.New("image classifier unavailable")

// Suggested point fields derived from a site photo.
// Category is the raw label returned by the model and is not yet validated.
type Classification struct {
	SuggestedName   string
	Category        string
	Characteristics string
	Observations    string
}

// Contract for an external service that describes a site photo.
type ImageClassifier interface {
	Classify(ctx context.Context, photo *domain.Photo) (Classification, error)
}
