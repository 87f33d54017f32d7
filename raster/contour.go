// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "math"

// TileContour is a set of tiles, stored as one inclusive column range per
// tile row in ascending row order.
//
// For coverage accumulation a segment influences every pixel to its right
// on the same row, up to where the shape ends. The contour of a segment is
// therefore its own tile plus the tiles to its right, and the contour of a
// shape is the union over its segments.
type TileContour struct {
	rows []rowSpan
}

type rowSpan struct {
	row    int
	minCol int
	maxCol int
}

// Empty reports whether the contour holds no tiles.
func (c TileContour) Empty() bool {
	return len(c.rows) == 0
}

// Len returns the number of tiles in the contour.
func (c TileContour) Len() int {
	n := 0
	for _, s := range c.rows {
		n += s.maxCol - s.minCol + 1
	}
	return n
}

// ForEachTile calls fn for every tile of the contour in row-major order.
// Coordinates may be negative or beyond any grid; callers clip.
func (c TileContour) ForEachTile(fn func(col, row int)) {
	for _, s := range c.rows {
		for col := s.minCol; col <= s.maxCol; col++ {
			fn(col, s.row)
		}
	}
}

// ForEachTileFrom calls fn for every tile of the contour at or after
// (col, row) in row-major order. Rows above row are skipped, and on row
// itself columns left of col are skipped.
func (c TileContour) ForEachTileFrom(col, row int, fn func(col, row int)) {
	for _, s := range c.rows {
		if s.row < row {
			continue
		}
		start := s.minCol
		if s.row == row {
			start = max(start, col)
		}
		for x := start; x <= s.maxCol; x++ {
			fn(x, s.row)
		}
	}
}

// Clip returns the part of the contour inside a cols x rows grid whose
// top-left tile is (0, 0).
func (c TileContour) Clip(cols, rows int) TileContour {
	var out TileContour
	for _, s := range c.rows {
		if s.row < 0 || s.row >= rows {
			continue
		}
		lo, hi := max(s.minCol, 0), min(s.maxCol, cols-1)
		if lo <= hi {
			out.rows = append(out.rows, rowSpan{row: s.row, minCol: lo, maxCol: hi})
		}
	}
	return out
}

// TileContour returns every tile the translated shape touches.
func (r Raster) TileContour() TileContour {
	if r.IsEmpty() {
		return TileContour{}
	}
	b := r.Bounds()
	maxCol := tileOf(b.Max.X - 1)
	minRow := tileOf(b.Min.Y)
	maxRow := tileOf(b.Max.Y - 1)

	minCols := make([]int, maxRow-minRow+1)
	for i := range minCols {
		minCols[i] = math.MaxInt
	}
	off := r.Offset()
	for _, s := range r.g.segs {
		col, row := s.Add(off).Tile()
		minCols[row-minRow] = min(minCols[row-minRow], col)
	}

	var c TileContour
	for i, col := range minCols {
		if col <= maxCol {
			c.rows = append(c.rows, rowSpan{row: minRow + i, minCol: col, maxCol: maxCol})
		}
	}
	return c
}

// SegmentContour returns the tiles whose coverage s influences once
// translated: its own tile row, from its starting column to the shape's
// rightmost column. The contour is empty when s lies right of every pixel
// the shape covers.
func (r Raster) SegmentContour(s Segment) TileContour {
	col, row := r.SegmentTile(s)
	maxCol := r.maxCol()
	if r.IsEmpty() || col > maxCol {
		return TileContour{}
	}
	return TileContour{rows: []rowSpan{{row: row, minCol: col, maxCol: maxCol}}}
}
