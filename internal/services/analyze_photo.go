package services

import (
	"context"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/platform/metrics"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
)

// Suggested draft fields for a photo, with the category already normalized.
type Analysis struct {
	SuggestedName   string
	Category        domain.Category
	Characteristics string
	Observations    string
}

type AnalyzeService struct {
	// Nil when no classifier is configured.
	Classifier ports.ImageClassifier
}

// Analyze asks the classifier to describe photo. Any classifier failure is
// reported as ErrAnalysisFailed; the caller keeps the draft editable.
func (s *AnalyzeService) Analyze(ctx context.Context, photo *domain.Photo) (Analysis, error) {
	if s.Classifier == nil {
		metrics.ClassifierCalls.WithLabelValues("unavailable").Inc()
		return Analysis{}, fmt.Errorf("analyze photo: %w", ports.ErrClassifierUnavailable)
	}
	if photo == nil || len(photo.Data) == 0 {
		return Analysis{}, fmt.Errorf("analyze photo: photo is required: %w", ErrValidation)
	}

	c, err := s.Classifier.Classify(ctx, photo)
	if err != nil {
		metrics.ClassifierCalls.WithLabelValues("error").Inc()
		obs.Logger(ctx).WithError(err).Warn("image classification failed")
		return Analysis{}, fmt.Errorf("analyze photo: %w", ErrAnalysisFailed)
	}
	metrics.ClassifierCalls.WithLabelValues("ok").Inc()

	return Analysis{
		SuggestedName:   c.SuggestedName,
		Category:        domain.ParseCategory(c.Category),
		Characteristics: c.Characteristics,
		Observations:    c.Observations,
	}, nil
}
