package parallel

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DirtyRegion is an atomic bitmap with one bit per tile, in row-major order.
//
// Painters mark tiles from worker goroutines while the render pass runs;
// TakeRects later drains the bitmap on the caller's goroutine.
type DirtyRegion struct {
	cols, rows int
	words      []atomic.Uint64
}

// NewDirtyRegion returns an empty region for a cols x rows grid, or nil if
// the grid has no tiles.
func NewDirtyRegion(cols, rows int) *DirtyRegion {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	return &DirtyRegion{
		cols:  cols,
		rows:  rows,
		words: make([]atomic.Uint64, (cols*rows+63)/64),
	}
}

func (d *DirtyRegion) bit(col, row int) (word int, mask uint64, ok bool) {
	if col < 0 || col >= d.cols || row < 0 || row >= d.rows {
		return 0, 0, false
	}
	i := row*d.cols + col
	return i / 64, 1 << (i % 64), true
}

// Mark flags tile (col, row). Coordinates outside the grid are ignored.
func (d *DirtyRegion) Mark(col, row int) {
	if w, m, ok := d.bit(col, row); ok {
		d.words[w].Or(m)
	}
}

// Count returns the number of flagged tiles.
func (d *DirtyRegion) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// TakeRects clears the region and returns the tiles it held as pixel
// rectangles clipped to a width x height canvas. Flagged tiles that are
// adjacent on the same tile row come back as one rectangle, and rectangles
// are ordered top to bottom, left to right.
func (d *DirtyRegion) TakeRects(width, height int) []image.Rectangle {
	canvas := image.Rect(0, 0, width, height)
	var rects []image.Rectangle

	first, last := -1, -1
	emit := func() {
		if first < 0 {
			return
		}
		row := first / d.cols
		r := image.Rect(
			first%d.cols*TileWidth, row*TileHeight,
			(last%d.cols+1)*TileWidth, (row+1)*TileHeight,
		).Intersect(canvas)
		if !r.Empty() {
			rects = append(rects, r)
		}
		first, last = -1, -1
	}

	for w := range d.words {
		word := d.words[w].Swap(0)
		for word != 0 {
			i := w*64 + bits.TrailingZeros64(word)
			word &= word - 1

			if last >= 0 && i == last+1 && i%d.cols != 0 {
				last = i
				continue
			}
			emit()
			first, last = i, i
		}
	}
	emit()
	return rects
}
