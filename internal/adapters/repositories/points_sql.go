package repositories

import (
	"database/sql"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/ports"
	"fmt"
)

// Column order shared by every point query and scanPoint.
const pointColumns = `id, name, category, characteristics, observations, captured_at,
	latitude, longitude, accuracy, easting, northing, zone, band, photo`

// checkInserted turns an insert that hit ON CONFLICT DO NOTHING into
// ErrPointExists.
func checkInserted(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %q: %w", id, ports.ErrPointExists)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(r rowScanner) (domain.CapturedPoint, error) {
	var (
		p        domain.CapturedPoint
		category string
		photo    sql.NullString
	)

	err := r.Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Characteristics,
		&p.Observations,
		&p.CapturedAtEpochMillis,
		&p.Position.Latitude,
		&p.Position.Longitude,
		&p.Position.Accuracy,
		&p.Projected.Easting,
		&p.Projected.Northing,
		&p.Projected.Zone,
		&p.Projected.Band,
		&photo,
	)
	if err != nil {
		return domain.CapturedPoint{}, err
	}

	p.Category = domain.ParseCategory(category)

	if photo.Valid && photo.String != "" {
		ph, err := domain.ParseDataURL(photo.String)
		if err != nil {
			return domain.CapturedPoint{}, fmt.Errorf("point %q: %w", p.ID, err)
		}
		p.Photo = ph
	}

	return p, nil
}

func pointArgs(p *domain.CapturedPoint) []any {
	return []any{
		p.ID,
		p.Name,
		string(p.Category),
		p.Characteristics,
		p.Observations,
		p.CapturedAtEpochMillis,
		p.Position.Latitude,
		p.Position.Longitude,
		p.Position.Accuracy,
		p.Projected.Easting,
		p.Projected.Northing,
		p.Projected.Zone,
		p.Projected.Band,
		p.Photo.DataURL(),
	}
}
