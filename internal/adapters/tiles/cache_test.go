package tiles

import (
	"context"
	"errors"
	"field-survey-service/internal/ports"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) GetTile(ctx context.Context, z, x, y int) (ports.Tile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return ports.Tile{}, f.err
	}
	return ports.Tile{ContentType: "image/png", Data: []byte(fmt.Sprintf("%d/%d/%d#%d", z, x, y, f.calls))}, nil
}

func newTestCache(src ports.TileSource, clock *time.Time) *Cache {
	c := NewCache(src, CacheOptions{TTL: time.Hour, MaxStale: 48 * time.Hour, Capacity: 8})
	c.now = func() time.Time { return *clock }
	return c
}

func TestCacheHitAvoidsUpstream(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	c := newTestCache(src, &clock)
	defer c.Close()

	first, err := c.GetTile(context.Background(), 3, 1, 2)
	require.NoError(t, err)

	second, err := c.GetTile(context.Background(), 3, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)
}

func TestCacheRefreshesExpiredTile(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	c := newTestCache(src, &clock)
	defer c.Close()

	_, err := c.GetTile(context.Background(), 1, 0, 0)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	tile, err := c.GetTile(context.Background(), 1, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "1/0/0#2", string(tile.Data))
	assert.Equal(t, 2, src.calls)
}

func TestCacheServesStaleWhenUpstreamFails(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	c := newTestCache(src, &clock)
	defer c.Close()

	fresh, err := c.GetTile(context.Background(), 2, 1, 1)
	require.NoError(t, err)

	clock = clock.Add(3 * time.Hour)
	src.err = errors.New("offline")

	stale, err := c.GetTile(context.Background(), 2, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, fresh, stale)

	_, err = c.GetTile(context.Background(), 2, 0, 0)
	assert.ErrorContains(t, err, "offline")
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		z, x, y int
		ok      bool
	}{
		{0, 0, 0, true},
		{3, 7, 7, true},
		{3, 8, 0, false},
		{3, 0, -1, false},
		{-1, 0, 0, false},
		{23, 0, 0, false},
	}

	for _, tt := range tests {
		err := ValidateAddress(tt.z, tt.x, tt.y)
		if tt.ok {
			assert.NoError(t, err, "%d/%d/%d", tt.z, tt.x, tt.y)
		} else {
			assert.ErrorIs(t, err, ports.ErrInvalidTile, "%d/%d/%d", tt.z, tt.x, tt.y)
		}
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/4/3/2.png", r.URL.Path)
		assert.Equal(t, "survey-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/{z}/{x}/{y}.png", "survey-test")
	require.NoError(t, err)

	tile, err := src.GetTile(context.Background(), 4, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, "image/png", tile.ContentType)
	assert.Equal(t, "png-bytes", string(tile.Data))

	_, err = NewHTTPSource("https://tiles.example.com/tile.png", "")
	assert.Error(t, err)
}
