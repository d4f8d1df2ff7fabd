package tiles

import (
	"context"
	"errors"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const maxTileBytes = 4 << 20

// HTTPSource fetches tiles from a slippy-map server such as OpenStreetMap.
type HTTPSource struct {
	template  string
	userAgent string
	session   *http.Client
}

// NewHTTPSource expects a URL template containing {z}, {x} and {y}.
func NewHTTPSource(template, userAgent string) (*HTTPSource, error) {
	for _, p := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(template, p) {
			return nil, fmt.Errorf("new tile source: template %q lacks %s", template, p)
		}
	}
	if userAgent == "" {
		userAgent = "field-survey-service"
	}

	return &HTTPSource{
		template:  template,
		userAgent: userAgent,
		session:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *HTTPSource) tileURL(z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(s.template)
}

func (s *HTTPSource) GetTile(ctx context.Context, z, x, y int) (_ ports.Tile, err error) {
	defer obs.Time(ctx, "tiles.http.GetTile")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tileURL(z, x, y), nil)
	if err != nil {
		return ports.Tile{}, fmt.Errorf("get tile: create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.session.Do(req)
	if err != nil {
		return ports.Tile{}, fmt.Errorf("get tile: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.Tile{}, fmt.Errorf("get tile %d/%d/%d: unexpected status: %d", z, x, y, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes+1))
	if err != nil {
		return ports.Tile{}, fmt.Errorf("get tile: read body: %w", err)
	}
	if len(data) > maxTileBytes {
		return ports.Tile{}, errors.New("get tile: body exceeds size limit")
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	return ports.Tile{ContentType: ct, Data: data}, nil
}
