// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "golang.org/x/image/math/fixed"

// Tile size constants shared by the contour traversal and the tile grid.
const (
	// TileShift is log2 of TileSize.
	TileShift = 6

	// TileSize is the width and height of a tile in pixels.
	// 64 pixels keeps a full RGBA tile at 16KB.
	TileSize = 1 << TileShift
)

// Segment is a directed line in 26.6 fixed-point pixel coordinates.
//
// Segments produced by this package never cross a pixel row boundary:
// both endpoints lie within [k, k+1] for some integer row k, and the
// segment is never horizontal. Integer translations preserve this, so a
// translated segment always belongs to exactly one tile row.
type Segment struct {
	P0, P1 fixed.Point26_6
}

// Add returns the segment translated by p.
func (s Segment) Add(p fixed.Point26_6) Segment {
	return Segment{P0: s.P0.Add(p), P1: s.P1.Add(p)}
}

// Dir returns +1 for a downward segment (increasing y) and -1 otherwise.
func (s Segment) Dir() int {
	if s.P1.Y > s.P0.Y {
		return 1
	}
	return -1
}

// Min returns the component-wise minimum of the endpoints.
func (s Segment) Min() fixed.Point26_6 {
	return fixed.Point26_6{X: min(s.P0.X, s.P1.X), Y: min(s.P0.Y, s.P1.Y)}
}

// Max returns the component-wise maximum of the endpoints.
func (s Segment) Max() fixed.Point26_6 {
	return fixed.Point26_6{X: max(s.P0.X, s.P1.X), Y: max(s.P0.Y, s.P1.Y)}
}

// Tile returns the tile containing the segment's top-left extent.
// Negative coordinates map to negative tiles.
func (s Segment) Tile() (col, row int) {
	m := s.Min()
	return tileOf(m.X.Floor()), tileOf(m.Y.Floor())
}

// tileOf converts a pixel coordinate to a tile coordinate, rounding toward
// negative infinity.
func tileOf(px int) int {
	return px >> TileShift
}
