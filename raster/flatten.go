// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"

	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// DefaultFlatness is the curve approximation tolerance, in device pixels,
// used when FromPath is given a non-positive flatness.
const DefaultFlatness = 0.25

// MaxCoord bounds device coordinates. Lines are clipped to
// [-MaxCoord, MaxCoord] vertically and x is clamped to the same range,
// so a single line yields at most 2*MaxCoord segments and stays far
// inside the 26.6 fixed-point range. Geometry that only reaches the canvas
// after a larger translation is lost.
const MaxCoord = 1 << 16

// FromPath flattens p into a raster.
//
// The path is mapped through m (the zero matrix means identity), curves are
// approximated by lines deviating at most flatness device pixels from the
// curve, and open subpaths are closed implicitly since the result is used
// for filling.
func FromPath(p *path.Data, m matrix.Matrix, flatness float64) Raster {
	if p == nil {
		return Raster{}
	}
	if m == (matrix.Matrix{}) {
		m = matrix.Identity
	}
	if flatness <= 0 {
		flatness = DefaultFlatness
	}
	b := builder{m: m, flatness: flatness, transform: true}

	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			b.moveToVec(p.Coords[coordIdx])
			coordIdx++

		case path.CmdLineTo:
			b.lineToVec(p.Coords[coordIdx])
			coordIdx++

		case path.CmdQuadTo:
			b.quadTo(p.Coords[coordIdx], p.Coords[coordIdx+1])
			coordIdx += 2

		case path.CmdCubeTo:
			b.cubeTo(p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2])
			coordIdx += 3

		case path.CmdClose:
			b.closePath()
		}
	}
	b.closePath()
	return newRaster(b.segs)
}

// builder accumulates row-split segments in device space.
type builder struct {
	m         matrix.Matrix
	transform bool
	flatness  float64

	current vec.Vec2 // device space
	start   vec.Vec2 // device space
	open    bool

	segs []Segment
}

func (b *builder) apply(v vec.Vec2) vec.Vec2 {
	if !b.transform {
		return v
	}
	return vec.Vec2{
		X: b.m[0]*v.X + b.m[2]*v.Y + b.m[4],
		Y: b.m[1]*v.X + b.m[3]*v.Y + b.m[5],
	}
}

func (b *builder) moveTo(x, y float64) {
	b.moveToVec(vec.Vec2{X: x, Y: y})
}

func (b *builder) lineTo(x, y float64) {
	b.lineToVec(vec.Vec2{X: x, Y: y})
}

func (b *builder) moveToVec(v vec.Vec2) {
	b.closePath()
	b.current = b.apply(v)
	b.start = b.current
	b.open = true
}

func (b *builder) lineToVec(v vec.Vec2) {
	to := b.apply(v)
	b.addLine(b.current, to)
	b.current = to
	b.open = true
}

// quadTo flattens a quadratic Bézier from the current point. Affine maps
// preserve Bézier curves, so control points are transformed first and the
// curve is flattened in device space.
func (b *builder) quadTo(c, to vec.Vec2) {
	p0 := b.current
	p1 := b.apply(c)
	p2 := b.apply(to)

	// e = (P0 - 2*P1 + P2) / 4
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	n := 1
	if d := e.Length(); d > b.flatness {
		n = int(math.Ceil(math.Sqrt(d / b.flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		b.addLine(prev, pt)
		prev = pt
	}
	b.current = p2
	b.open = true
}

// cubeTo flattens a cubic Bézier using Wang's formula for the segment count.
func (b *builder) cubeTo(c1, c2, to vec.Vec2) {
	p0 := b.current
	p1 := b.apply(c1)
	p2 := b.apply(c2)
	p3 := b.apply(to)

	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * b.flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t))
		b.addLine(prev, pt)
		prev = pt
	}
	b.current = p3
	b.open = true
}

func (b *builder) closePath() {
	if !b.open {
		return
	}
	if b.current != b.start {
		b.addLine(b.current, b.start)
	}
	b.current = b.start
	b.open = false
}

// addLine splits p0→p1 at every integer y it crosses and emits the pieces.
func (b *builder) addLine(p0, p1 vec.Vec2) {
	if p0.Y == p1.Y || !finite(p0) || !finite(p1) {
		return
	}
	var ok bool
	if p0, p1, ok = clipY(p0, p1); !ok {
		return
	}
	dxdy := (p1.X - p0.X) / (p1.Y - p0.Y)
	at := func(y float64) vec.Vec2 {
		return vec.Vec2{X: p0.X + (y-p0.Y)*dxdy, Y: y}
	}

	prev := p0
	if p1.Y > p0.Y {
		for y := math.Floor(p0.Y) + 1; y < p1.Y; y++ {
			next := at(y)
			b.emit(prev, next)
			prev = next
		}
	} else {
		for y := math.Ceil(p0.Y) - 1; y > p1.Y; y-- {
			next := at(y)
			b.emit(prev, next)
			prev = next
		}
	}
	b.emit(prev, p1)
}

// emit rounds a single-row piece to 26.6 and stores it unless rounding
// made it horizontal.
func (b *builder) emit(p0, p1 vec.Vec2) {
	s := Segment{P0: toFixed(p0), P1: toFixed(p1)}
	if s.P0.Y == s.P1.Y {
		return
	}
	b.segs = append(b.segs, s)
}

// clipY restricts a non-horizontal line to the band |y| <= MaxCoord.
func clipY(p0, p1 vec.Vec2) (vec.Vec2, vec.Vec2, bool) {
	const lim = MaxCoord
	lo, hi := min(p0.Y, p1.Y), max(p0.Y, p1.Y)
	if hi <= -lim || lo >= lim {
		return p0, p1, false
	}
	at := func(y float64) vec.Vec2 {
		t := (y - p0.Y) / (p1.Y - p0.Y)
		return vec.Vec2{X: p0.X + t*(p1.X-p0.X), Y: y}
	}
	c0, c1 := p0, p1
	if p0.Y < -lim {
		c0 = at(-lim)
	} else if p0.Y > lim {
		c0 = at(lim)
	}
	if p1.Y < -lim {
		c1 = at(-lim)
	} else if p1.Y > lim {
		c1 = at(lim)
	}
	return c0, c1, true
}

func toFixed(v vec.Vec2) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(max(-MaxCoord, min(v.X, MaxCoord)) * 64)),
		Y: fixed.Int26_6(math.Round(max(-MaxCoord, min(v.Y, MaxCoord)) * 64)),
	}
}

func finite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
