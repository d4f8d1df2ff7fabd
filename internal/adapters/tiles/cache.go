package tiles

import (
	"context"
	"field-survey-service/internal/platform/metrics"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const maxZoom = 22

type cachedTile struct {
	tile      ports.Tile
	fetchedAt time.Time
}

type CacheOptions struct {
	// Tiles younger than TTL are served without contacting upstream.
	TTL time.Duration
	// Older tiles are kept up to MaxStale and served when upstream fails.
	MaxStale time.Duration
	Capacity uint64
}

// Cache is a read-through tile cache that keeps serving expired tiles
// while the upstream is unreachable.
type Cache struct {
	upstream ports.TileSource
	items    *ttlcache.Cache[string, *cachedTile]
	ttl      time.Duration
	now      func() time.Time
}

func NewCache(upstream ports.TileSource, opts CacheOptions) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.MaxStale < opts.TTL {
		opts.MaxStale = 30 * opts.TTL
	}
	if opts.Capacity == 0 {
		opts.Capacity = 2048
	}

	items := ttlcache.New(
		ttlcache.WithCapacity[string, *cachedTile](opts.Capacity),
		ttlcache.WithTTL[string, *cachedTile](opts.MaxStale),
	)
	go items.Start()

	return &Cache{
		upstream: upstream,
		items:    items,
		ttl:      opts.TTL,
		now:      time.Now,
	}
}

// Close stops the expiry loop.
func (c *Cache) Close() {
	c.items.Stop()
}

func ValidateAddress(z, x, y int) error {
	if z < 0 || z > maxZoom {
		return fmt.Errorf("zoom %d out of range 0-%d: %w", z, maxZoom, ports.ErrInvalidTile)
	}
	n := 1 << z
	if x < 0 || x >= n || y < 0 || y >= n {
		return fmt.Errorf("tile %d/%d/%d out of range: %w", z, x, y, ports.ErrInvalidTile)
	}
	return nil
}

func (c *Cache) GetTile(ctx context.Context, z, x, y int) (ports.Tile, error) {
	if err := ValidateAddress(z, x, y); err != nil {
		return ports.Tile{}, err
	}

	key := fmt.Sprintf("%d/%d/%d", z, x, y)

	var stale *cachedTile
	if item := c.items.Get(key, ttlcache.WithDisableTouchOnHit[string, *cachedTile]()); item != nil {
		entry := item.Value()
		if c.now().Sub(entry.fetchedAt) < c.ttl {
			metrics.TileCacheHits.Inc()
			return entry.tile, nil
		}
		stale = entry
	}

	metrics.TileCacheMisses.Inc()
	tile, err := c.upstream.GetTile(ctx, z, x, y)
	if err != nil {
		if stale != nil {
			metrics.TileStaleServed.Inc()
			obs.Logger(ctx).WithError(err).WithField("tile", key).Warn("serving stale tile")
			return stale.tile, nil
		}
		return ports.Tile{}, fmt.Errorf("get tile %s: %w", key, err)
	}

	c.items.Set(key, &cachedTile{tile: tile, fetchedAt: c.now()}, ttlcache.DefaultTTL)
	return tile, nil
}
