package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Tile is a rectangular block of pixels rendered by one task. Its sampler
// persists across passes so consecutive passes draw fresh sequences.
type Tile struct {
	ID              int             // unique within the grid
	Parent          int             // index of the enclosing tile
	Bounds          image.Rectangle // pixel bounds (x0,y0,x1,y1)
	PassesCompleted int
	Sampler         core.Sampler
}

// NewTile creates a tile with its own random sequence derived from seed
func NewTile(id, parent int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Parent:  parent,
		Bounds:  bounds,
		Sampler: core.NewRandomSampler(rand.New(rand.NewSource(seed + int64(id) + 42))),
	}
}

// NewTileGrid covers a width×height image with tiles of tileSize, each
// split into sub-tiles of subTileSize. The returned sub-tiles are the units
// of work; they are ordered tile by tile.
func NewTileGrid(width, height, tileSize, subTileSize int, seed int64) []*Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}
	if subTileSize <= 0 || subTileSize > tileSize {
		subTileSize = tileSize
	}

	var tiles []*Tile
	parent := 0
	for _, outer := range splitRect(image.Rect(0, 0, width, height), tileSize) {
		for _, inner := range splitRect(outer, subTileSize) {
			tiles = append(tiles, NewTile(len(tiles), parent, inner, seed))
		}
		parent++
	}
	return tiles
}

// splitRect cuts r into size×size blocks, clipping the last row and column
func splitRect(r image.Rectangle, size int) []image.Rectangle {
	var rects []image.Rectangle
	for y0 := r.Min.Y; y0 < r.Max.Y; y0 += size {
		for x0 := r.Min.X; x0 < r.Max.X; x0 += size {
			x1 := min(x0+size, r.Max.X)
			y1 := min(y0+size, r.Max.Y)
			rects = append(rects, image.Rect(x0, y0, x1, y1))
		}
	}
	return rects
}
