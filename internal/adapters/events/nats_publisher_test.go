package events

import (
	"context"
	"field-survey-service/internal/domain"
	"testing"

	"github.com/tidwall/gjson"
)

func TestCapturedPayloadOmitsPhoto(t *testing.T) {
	p := &domain.CapturedPoint{
		ID:                    "p1",
		Name:                  "Bridge",
		Category:              domain.CategoryInfrastructure,
		CapturedAtEpochMillis: 1700000000000,
		Position:              domain.GeographicPosition{Latitude: 19.4326, Longitude: -99.1332},
		Projected:             domain.ProjectedCoordinate{Easting: 486017.33, Northing: 2148700.22, Zone: 14, Band: "Q"},
		Photo:                 &domain.Photo{MimeType: "image/jpeg", Data: []byte("jpg")},
	}

	data, err := capturedPayload(p)
	if err != nil {
		t.Fatalf("capturedPayload: %v", err)
	}
	s := string(data)

	if got := gjson.Get(s, "id").String(); got != "p1" {
		t.Fatalf("id = %q, want p1", got)
	}
	if got := gjson.Get(s, "utm.zone").Int(); got != 14 {
		t.Fatalf("utm.zone = %d, want 14", got)
	}
	if !gjson.Get(s, "has_photo").Bool() {
		t.Fatalf("has_photo = false, want true")
	}
	if gjson.Get(s, "photoBase64").Exists() {
		t.Fatalf("payload must not carry the photo: %s", s)
	}
}

func TestNoopPublisher(t *testing.T) {
	var pub NoopPublisher
	if err := pub.PointCaptured(context.Background(), &domain.CapturedPoint{}); err != nil {
		t.Fatalf("PointCaptured: %v", err)
	}
	if err := pub.PointDeleted(context.Background(), "x"); err != nil {
		t.Fatalf("PointDeleted: %v", err)
	}
}
