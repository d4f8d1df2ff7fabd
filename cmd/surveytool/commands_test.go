package main

import (
	"bytes"
	"context"
	"field-survey-service/internal/adapters/repositories"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/platform/db"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunProject(t *testing.T) {
	var out bytes.Buffer
	if err := runProject(&out, 19.4326, -99.1332, true); err != nil {
		t.Fatalf("runProject: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q, want 2 lines", out.String())
	}
	if lines[0] != "Zone 14Q E:486017.33 N:2148700.22" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "reference E:") {
		t.Fatalf("line 1 = %q", lines[1])
	}

	if err := runProject(&out, 100, 0, false); err == nil {
		t.Fatalf("expected error for latitude 100")
	}
}

func TestRunExport(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init: %v", err)
	}
	repo := repositories.NewSqlitePointRepository(conn)

	p := domain.CapturedPoint{
		ID:       "p1",
		Name:     "Bench mark",
		Category: domain.CategoryControlPoint,
		Position: domain.GeographicPosition{Latitude: 40.7128, Longitude: -74.006},
	}
	if err := repo.SavePoint(context.Background(), &p); err != nil {
		t.Fatalf("SavePoint: %v", err)
	}

	dir := t.TempDir()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	out := filepath.Join(dir, "survey.kml")
	path, n, err := runExport(context.Background(), repo, "kml", out, time.UTC, now)
	if err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if path != out || n != 1 {
		t.Fatalf("path, n = %q, %d", path, n)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "<name>Bench mark</name>") {
		t.Fatalf("missing placemark: %s", body)
	}

	chdir(t, dir)
	path, _, err = runExport(context.Background(), repo, "geojson", "", time.UTC, now)
	if err != nil {
		t.Fatalf("runExport geojson: %v", err)
	}
	if path != "levantamiento_2026-10-19.geojson" {
		t.Fatalf("path = %q", path)
	}

	if _, _, err := runExport(context.Background(), repo, "csv", "", time.UTC, now); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
