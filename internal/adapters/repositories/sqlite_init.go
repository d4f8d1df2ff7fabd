package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/geo"
	"field-survey-service/internal/ports"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	return initSchema(db, []string{`
	CREATE TABLE IF NOT EXISTS points (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		characteristics TEXT NOT NULL DEFAULT '',
		observations TEXT NOT NULL DEFAULT '',
		captured_at INTEGER NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		accuracy REAL NOT NULL DEFAULT 0,
		easting REAL NOT NULL,
		northing REAL NOT NULL,
		zone INTEGER NOT NULL,
		band TEXT NOT NULL,
		photo TEXT NOT NULL DEFAULT ''
	);
	`, `
	CREATE INDEX IF NOT EXISTS idx_points_captured_at ON points(captured_at);
	`, `
	CREATE TABLE IF NOT EXISTS tile_cache (
		z INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (z, x, y)
	);
	`})
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	return initSchema(db, []string{`
	CREATE TABLE IF NOT EXISTS points (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		characteristics TEXT NOT NULL DEFAULT '',
		observations TEXT NOT NULL DEFAULT '',
		captured_at BIGINT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
		easting DOUBLE PRECISION NOT NULL,
		northing DOUBLE PRECISION NOT NULL,
		zone INTEGER NOT NULL,
		band TEXT NOT NULL,
		photo TEXT NOT NULL DEFAULT ''
	);
	`, `
	CREATE INDEX IF NOT EXISTS idx_points_captured_at ON points(captured_at);
	`, `
	CREATE TABLE IF NOT EXISTS tile_cache (
		z INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		data BYTEA NOT NULL,
		fetched_at BIGINT NOT NULL,
		PRIMARY KEY (z, x, y)
	);
	`})
}

func initSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Read a JSON array of captured points, as exported by the mobile client.
// Projections are recomputed from the stored coordinates.
func LoadPointsJSON(jsonPath string) ([]domain.CapturedPoint, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load points: read %q: %w", jsonPath, err)
	}

	var data []domain.CapturedPoint
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load points: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	for i := range data {
		p := &data[i]

		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("load points: item at index %d: id cannot be empty", i+1)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("load points: item at index %d: duplicate id %q", i+1, p.ID)
		}
		seen[p.ID] = struct{}{}

		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("load points: item %q: name cannot be empty", p.ID)
		}

		projected, err := geo.ProjectPosition(p.Position)
		if err != nil {
			return nil, fmt.Errorf("load points: item %q: %w", p.ID, err)
		}
		p.Projected = projected
	}

	return data, nil
}

// Replace the stored collection with the points in a JSON file.
func SeedFromJSON(ctx context.Context, repo ports.PointRepository, jsonPath string) (int, error) {
	points, err := LoadPointsJSON(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed points: %w", err)
	}

	if err := repo.ReplaceAll(ctx, points); err != nil {
		return 0, fmt.Errorf("seed points: %w", err)
	}

	return len(points), nil
}
