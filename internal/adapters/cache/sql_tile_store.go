package cache

import (
	"context"
	"database/sql"
	"errors"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
	"time"
)

// SQLTileStore is a persistent read-through tile cache in front of an upstream
// source. Tiles survive restarts, so areas viewed once stay available offline.
type SQLTileStore struct {
	DB       *sql.DB
	Upstream ports.TileSource
	TTL      time.Duration

	getQuery string
	putQuery string
	now      func() time.Time
}

// NewSqliteTileStore stores tiles in the SQLite tile_cache table.
func NewSqliteTileStore(db *sql.DB, upstream ports.TileSource, ttl time.Duration) *SQLTileStore {
	return &SQLTileStore{
		DB:       db,
		Upstream: upstream,
		TTL:      ttl,
		getQuery: `
	SELECT content_type, data, fetched_at
	FROM tile_cache
	WHERE z = ? AND x = ? AND y = ?;
	`,
		putQuery: `
	INSERT OR REPLACE INTO tile_cache (z, x, y, content_type, data, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`,
		now: time.Now,
	}
}

// NewSQLTileStore stores tiles in the Postgres tile_cache table.
func NewSQLTileStore(db *sql.DB, upstream ports.TileSource, ttl time.Duration) *SQLTileStore {
	return &SQLTileStore{
		DB:       db,
		Upstream: upstream,
		TTL:      ttl,
		getQuery: `
	SELECT content_type, data, fetched_at
	FROM tile_cache
	WHERE z = $1 AND x = $2 AND y = $3;
	`,
		putQuery: `
	INSERT INTO tile_cache (z, x, y, content_type, data, fetched_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (z, x, y) DO UPDATE
	SET content_type = EXCLUDED.content_type,
		data = EXCLUDED.data,
		fetched_at = EXCLUDED.fetched_at;
	`,
		now: time.Now,
	}
}

func (s *SQLTileStore) GetTile(ctx context.Context, z, x, y int) (_ ports.Tile, err error) {
	defer obs.Time(ctx, "tiles.store.GetTile")(&err)

	if s.DB == nil {
		return ports.Tile{}, errors.New("tile store: db is nil")
	}

	var (
		stored    ports.Tile
		fetchedAt int64
		found     bool
	)
	err = s.DB.QueryRowContext(ctx, s.getQuery, z, x, y).Scan(&stored.ContentType, &stored.Data, &fetchedAt)
	switch {
	case err == nil:
		found = true
		if s.now().Sub(time.UnixMilli(fetchedAt)) < s.TTL {
			return stored, nil
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return ports.Tile{}, fmt.Errorf("get tile store: query tile_cache table: %w", err)
	}

	tile, err := s.Upstream.GetTile(ctx, z, x, y)
	if err != nil {
		if found {
			obs.Logger(ctx).WithError(err).Warn("tile store: serving stored tile")
			return stored, nil
		}
		return ports.Tile{}, err
	}

	if _, err := s.DB.ExecContext(ctx, s.putQuery, z, x, y, tile.ContentType, tile.Data, s.now().UnixMilli()); err != nil {
		// The tile is still usable; only persistence failed.
		obs.Logger(ctx).WithError(err).Warn("tile store: insert failed")
	}

	return tile, nil
}
