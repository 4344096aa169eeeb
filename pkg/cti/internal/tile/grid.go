// Package tile computes the tile grid over an image, extracts/blits tile
// rectangles, and orchestrates the per-tile encode/decode pipeline across
// a worker pool built on errgroup.WithContext, applied here to per-tile
// pixel transforms rather than per-item I/O.
package tile

// Grid describes the tile partition of a width×height image for a given
// tile size: tilesX/tilesY columns and rows, with edge tiles allowed to
// be smaller than tileSize.
type Grid struct {
	Width, Height int
	TileSize      int
	TilesX        int
	TilesY        int
}

// NewGrid computes tilesX/tilesY as ceil(dimension/tileSize).
func NewGrid(width, height, tileSize int) Grid {
	return Grid{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		TilesX:   ceilDiv(width, tileSize),
		TilesY:   ceilDiv(height, tileSize),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Count returns the total number of tiles in the grid.
func (g Grid) Count() int {
	return g.TilesX * g.TilesY
}

// Index returns the row-major tile index for tile column i, row j, as
// used both for TileIndexEntry order and for Rect.
func (g Grid) Index(i, j int) int {
	return j*g.TilesX + i
}

// Coords reverses Index.
func (g Grid) Coords(index int) (i, j int) {
	return index % g.TilesX, index / g.TilesX
}

// Rect is the unpadded pixel rectangle a tile covers: [X, X+W) × [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// RectAt returns the unpadded rectangle for tile column i, row j: edge
// tiles are clipped to the image bounds rather than padded.
func (g Grid) RectAt(i, j int) Rect {
	x, y := i*g.TileSize, j*g.TileSize
	w := g.TileSize
	if x+w > g.Width {
		w = g.Width - x
	}
	h := g.TileSize
	if y+h > g.Height {
		h = g.Height - y
	}
	return Rect{X: x, Y: y, W: w, H: h}
}
