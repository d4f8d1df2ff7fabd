package services

import (
	"context"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/geo"
	"fmt"
	"sort"

	"github.com/golang/geo/s2"
)

// Mean earth radius in meters.
const earthRadiusMeters = 6371008.8

type NearbyPoint struct {
	Point          domain.CapturedPoint
	DistanceMeters float64
}

// Nearby returns points within radiusMeters of (lat, lon), closest first.
func (s *CaptureService) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]NearbyPoint, error) {
	if err := geo.Validate(lat, lon); err != nil {
		return nil, fmt.Errorf("nearby points: %w", err)
	}
	if !(radiusMeters > 0) {
		return nil, fmt.Errorf("nearby points: radius must be positive: %w", ErrValidation)
	}

	points, err := s.Repo.ListPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearby points: %w", err)
	}

	return withinRadius(points, lat, lon, radiusMeters), nil
}

func withinRadius(points []domain.CapturedPoint, lat, lon, radiusMeters float64) []NearbyPoint {
	center := s2.LatLngFromDegrees(lat, lon)

	out := make([]NearbyPoint, 0)
	for _, p := range points {
		ll := s2.LatLngFromDegrees(p.Position.Latitude, p.Position.Longitude)
		d := center.Distance(ll).Radians() * earthRadiusMeters
		if d <= radiusMeters {
			out = append(out, NearbyPoint{Point: p, DistanceMeters: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out
}
