package ports

import (
	"context"
	"errors"
)

var ErrInvalidTile = errors.New("invalid tile address")

// A rendered map tile.
type Tile struct {
	ContentType string
	Data        []byte
}

// Contract for fetching map tiles by z/x/y address.
type TileSource interface {
	GetTile(ctx context.Context, z, x, y int) (Tile, error)
}
