package export

import (
	"field-survey-service/internal/domain"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const GeoJSONMimeType = "application/geo+json"

// GeoJSON serializes points into a FeatureCollection of Point features,
// preserving input order.
func GeoJSON(points []domain.CapturedPoint) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.Position.Longitude, p.Position.Latitude})
		f.ID = p.ID
		f.Properties["name"] = p.Name
		f.Properties["category"] = string(p.Category)
		f.Properties["characteristics"] = p.Characteristics
		f.Properties["observations"] = p.Observations
		f.Properties["captured_at"] = p.CapturedAtEpochMillis
		f.Properties["accuracy"] = p.Position.Accuracy
		f.Properties["utm_zone"] = fmt.Sprintf("%d%s", p.Projected.Zone, p.Projected.Band)
		f.Properties["utm_easting"] = p.Projected.Easting
		f.Properties["utm_northing"] = p.Projected.Northing
		fc.Append(f)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export geojson: %w", err)
	}
	return b, nil
}
