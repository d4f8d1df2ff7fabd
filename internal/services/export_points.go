package services

import (
	"context"
	"field-survey-service/internal/export"
	"field-survey-service/internal/platform/metrics"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
	"time"
)

// A rendered export ready for delivery.
type ExportDocument struct {
	FileName    string
	ContentType string
	Body        []byte
	Count       int
}

type ExportService struct {
	Repo     ports.PointRepository
	Location *time.Location
	Now      func() time.Time
}

func NewExportService(repo ports.PointRepository, loc *time.Location) *ExportService {
	return &ExportService{Repo: repo, Location: loc, Now: time.Now}
}

// KML renders the whole collection. An empty collection yields a valid empty document.
func (s *ExportService) KML(ctx context.Context) (_ ExportDocument, err error) {
	defer obs.Time(ctx, "export.KML")(&err)

	points, err := s.Repo.ListPoints(ctx)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("export kml: %w", err)
	}

	doc := export.KML(points, export.KMLOptions{Location: s.Location})
	metrics.Exports.WithLabelValues("kml").Inc()

	return ExportDocument{
		FileName:    export.FileName("kml", s.Now()),
		ContentType: export.KMLMimeType,
		Body:        []byte(doc),
		Count:       len(points),
	}, nil
}

func (s *ExportService) GeoJSON(ctx context.Context) (_ ExportDocument, err error) {
	defer obs.Time(ctx, "export.GeoJSON")(&err)

	points, err := s.Repo.ListPoints(ctx)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("export geojson: %w", err)
	}

	body, err := export.GeoJSON(points)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("export geojson: %w", err)
	}
	metrics.Exports.WithLabelValues("geojson").Inc()

	return ExportDocument{
		FileName:    export.FileName("geojson", s.Now()),
		ContentType: export.GeoJSONMimeType,
		Body:        body,
		Count:       len(points),
	}, nil
}
