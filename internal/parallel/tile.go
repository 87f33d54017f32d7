// Package parallel provides the tile scheduling infrastructure behind
// mosaic's render pass.
//
// The canvas is divided into square tiles that are painted independently.
// This package supplies:
//
//   - scratch tiles, pooled via sync.Pool, that painters draw into
//   - a work-stealing WorkerPool
//   - a Dispatcher that feeds tiles to the pool in Hilbert order
//   - DirtyRegion, an atomic bitmap recording which tiles were repainted
//
// Thread safety: WorkerPool, Dispatcher, TilePool and DirtyRegion are safe
// for concurrent use. A Tile belongs to whoever took it from the pool.
package parallel

import (
	"image"

	"github.com/gogpu/mosaic/raster"
)

// Tile size constants, fixed by the raster package's tile grid.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = raster.TileSize

	// TileHeight is the height of a tile in pixels.
	TileHeight = raster.TileSize
)

// Tile is a scratch buffer for painting one canvas tile.
//
// Edge tiles may have smaller actual dimensions when the canvas is not
// evenly divisible by the tile size.
type Tile struct {
	// X is the tile column index (0-based).
	X int

	// Y is the tile row index (0-based).
	Y int

	// Width is the actual width in pixels (may be < TileWidth for edge tiles).
	Width int

	// Height is the actual height in pixels (may be < TileHeight for edge tiles).
	Height int

	// Data contains premultiplied RGBA pixels. Length is Width * Height * 4.
	Data []byte

	// Mask holds one coverage byte per pixel. Length is Width * Height.
	Mask []byte
}

// Reset clears the pixel and coverage data for reuse.
func (t *Tile) Reset() {
	clear(t.Data)
	clear(t.Mask)
}

// Bounds returns the pixel bounds of this tile in canvas space.
func (t *Tile) Bounds() image.Rectangle {
	x, y := t.X*TileWidth, t.Y*TileHeight
	return image.Rect(x, y, x+t.Width, y+t.Height)
}

// RGBA returns an image view of Data in tile-local coordinates.
// The view shares memory with the tile.
func (t *Tile) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Data,
		Stride: t.Stride(),
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Alpha returns an image view of Mask in tile-local coordinates.
func (t *Tile) Alpha() *image.Alpha {
	return &image.Alpha{
		Pix:    t.Mask,
		Stride: t.Width,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Stride returns the row stride of Data in bytes.
func (t *Tile) Stride() int {
	return t.Width * 4
}
