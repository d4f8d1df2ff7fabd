package services

import (
	"context"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/export"
	"strings"
	"testing"
	"time"
)

func TestExportKML(t *testing.T) {
	repo := &memRepo{points: []domain.CapturedPoint{
		{ID: "b", Name: "Second", Category: domain.CategoryOther, CapturedAtEpochMillis: 2000},
		{ID: "a", Name: "First", Category: domain.CategoryOther, CapturedAtEpochMillis: 1000},
	}}
	svc := NewExportService(repo, nil)
	svc.Now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

	doc, err := svc.KML(context.Background())
	if err != nil {
		t.Fatalf("KML: %v", err)
	}

	if doc.FileName != "levantamiento_2026-10-19.kml" {
		t.Fatalf("FileName = %q", doc.FileName)
	}
	if doc.ContentType != export.KMLMimeType {
		t.Fatalf("ContentType = %q", doc.ContentType)
	}
	if doc.Count != 2 {
		t.Fatalf("Count = %d, want 2", doc.Count)
	}

	body := string(doc.Body)
	if strings.Index(body, "Second") > strings.Index(body, "First") {
		t.Fatalf("placemarks not in collection order")
	}
}

func TestExportEmptyCollection(t *testing.T) {
	svc := NewExportService(&memRepo{}, time.UTC)

	doc, err := svc.KML(context.Background())
	if err != nil {
		t.Fatalf("KML: %v", err)
	}
	if doc.Count != 0 || strings.Contains(string(doc.Body), "<Placemark>") {
		t.Fatalf("expected empty document, got %s", doc.Body)
	}

	gj, err := svc.GeoJSON(context.Background())
	if err != nil {
		t.Fatalf("GeoJSON: %v", err)
	}
	if gj.ContentType != export.GeoJSONMimeType || !strings.HasSuffix(gj.FileName, ".geojson") {
		t.Fatalf("unexpected geojson document: %+v", gj)
	}
}
