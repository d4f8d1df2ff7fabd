package export

import (
	"field-survey-service/internal/domain"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestGeoJSON(t *testing.T) {
	points := []domain.CapturedPoint{
		testPoint("p-1", "Pozo", 19.4326, -99.1332),
		testPoint("p-2", "Muro", -33.8688, 151.2093),
	}

	b, err := GeoJSON(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatalf("output is not a feature collection: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fc.Features))
	}

	pt, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("geometry = %T, want orb.Point", fc.Features[0].Geometry)
	}
	if pt.Lon() != -99.1332 || pt.Lat() != 19.4326 {
		t.Fatalf("point = %v, want lon -99.1332 lat 19.4326", pt)
	}
	if got := fc.Features[1].Properties.MustString("name"); got != "Muro" {
		t.Fatalf("second feature name = %q, want Muro", got)
	}
	if got := fc.Features[0].Properties.MustString("utm_zone"); got != "14Q" {
		t.Fatalf("utm_zone = %q, want 14Q", got)
	}
}

func TestGeoJSONEmpty(t *testing.T) {
	b, err := GeoJSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Fatalf("features = %d, want 0", len(fc.Features))
	}
}
