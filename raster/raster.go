// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster holds flattened, translation-aware layer geometry.
//
// A Raster is a small value: a handle to immutable shared segment storage
// plus an integer translation. Copying a Raster, or moving it with
// Translated, never copies the segments, so many layers can reference the
// same outline and read it concurrently without locking.
//
// Besides the geometry itself the package answers the one spatial query the
// tile engine needs: which tiles does a shape, or a single segment of it,
// influence (see TileContour).
package raster

import (
	"image"
	"iter"
	"slices"

	"golang.org/x/image/math/fixed"
)

// geometry is the shared, immutable part of a Raster.
type geometry struct {
	segs []Segment

	// bounds covers every endpoint in untranslated coordinates.
	bounds fixed.Rectangle26_6
}

// Raster is a flattened outline with an integer pixel translation.
//
// The zero Raster is empty and valid.
type Raster struct {
	g           *geometry
	translation image.Point
}

// newRaster takes ownership of segs.
func newRaster(segs []Segment) Raster {
	if len(segs) == 0 {
		return Raster{}
	}
	// Vertical segments have zero width, which fixed.Rectangle26_6.Union
	// treats as empty, so the bounds are accumulated per component.
	b := fixed.Rectangle26_6{Min: segs[0].Min(), Max: segs[0].Max()}
	for _, s := range segs[1:] {
		lo, hi := s.Min(), s.Max()
		b.Min.X, b.Min.Y = min(b.Min.X, lo.X), min(b.Min.Y, lo.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, hi.X), max(b.Max.Y, hi.Y)
	}
	return Raster{g: &geometry{segs: segs, bounds: b}}
}

// Rect returns a raster covering the pixel rectangle r.
func Rect(r image.Rectangle) Raster {
	r = r.Canon()
	if r.Empty() {
		return Raster{}
	}
	var b builder
	b.moveTo(float64(r.Min.X), float64(r.Min.Y))
	b.lineTo(float64(r.Max.X), float64(r.Min.Y))
	b.lineTo(float64(r.Max.X), float64(r.Max.Y))
	b.lineTo(float64(r.Min.X), float64(r.Max.Y))
	b.closePath()
	return newRaster(b.segs)
}

// Union returns a raster holding the geometry of all rs, each with its
// translation applied. The result has a zero translation.
func Union(rs ...Raster) Raster {
	n := 0
	for _, r := range rs {
		n += r.Len()
	}
	segs := make([]Segment, 0, n)
	for _, r := range rs {
		off := r.Offset()
		for _, s := range r.All() {
			segs = append(segs, s.Add(off))
		}
	}
	return newRaster(segs)
}

// Len returns the number of segments.
func (r Raster) Len() int {
	if r.g == nil {
		return 0
	}
	return len(r.g.segs)
}

// IsEmpty reports whether the raster has no segments.
func (r Raster) IsEmpty() bool {
	return r.Len() == 0
}

// Segment returns the i-th segment in untranslated coordinates.
func (r Raster) Segment(i int) Segment {
	return r.g.segs[i]
}

// All iterates over the untranslated segments in order.
func (r Raster) All() iter.Seq2[int, Segment] {
	return func(yield func(int, Segment) bool) {
		if r.g == nil {
			return
		}
		for i, s := range r.g.segs {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Translation returns the pixel translation applied to the geometry.
func (r Raster) Translation() image.Point {
	return r.translation
}

// Offset returns the translation in 26.6 fixed point.
func (r Raster) Offset() fixed.Point26_6 {
	return fixed.P(r.translation.X, r.translation.Y)
}

// Translated returns a raster sharing r's geometry, moved by d.
func (r Raster) Translated(d image.Point) Raster {
	return Raster{g: r.g, translation: r.translation.Add(d)}
}

// Bounds returns the translated pixel bounds of the geometry.
// Fractional extents are rounded outward.
func (r Raster) Bounds() image.Rectangle {
	if r.g == nil {
		return image.Rectangle{}
	}
	b := r.g.bounds
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil()).
		Add(r.translation)
}

// Equal reports whether r and o describe the same translated geometry.
func (r Raster) Equal(o Raster) bool {
	if r.translation != o.translation {
		return false
	}
	if r.g == o.g {
		return true
	}
	if r.Len() != o.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	return slices.Equal(r.g.segs, o.g.segs)
}

// SegmentTile returns the starting tile of s after translation.
func (r Raster) SegmentTile(s Segment) (col, row int) {
	return s.Add(r.Offset()).Tile()
}

// maxCol returns the tile column of the rightmost pixel column the
// translated geometry reaches.
func (r Raster) maxCol() int {
	return tileOf(r.Bounds().Max.X - 1)
}
