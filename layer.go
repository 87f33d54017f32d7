package mosaic

import (
	"image/color"
	"slices"

	"golang.org/x/image/draw"

	"github.com/gogpu/mosaic/raster"
)

// PaintOp is one paint operation applied to a layer's coverage.
//
// Color is premultiplied. Op selects how it combines with what is already
// painted: draw.Over blends, draw.Src replaces covered pixels.
type PaintOp struct {
	Color color.RGBA
	Op    draw.Op
}

// Fill returns an operation blending c over covered pixels.
func Fill(c color.RGBA) PaintOp {
	return PaintOp{Color: c, Op: draw.Over}
}

// Clear returns an operation replacing covered pixels with c.
func Clear(c color.RGBA) PaintOp {
	return PaintOp{Color: c, Op: draw.Src}
}

// Layer is a paintable shape: flattened geometry plus paint operations.
//
// The Raster is a shared handle; copying a Layer never copies geometry.
type Layer struct {
	Raster raster.Raster
	Ops    []PaintOp

	// fresh: geometry or ops changed since the last render.
	// partial: unchanged, but must be re-emitted into tiles being rebuilt.
	fresh   bool
	partial bool
}

// Equal reports whether l and o have the same geometry and operations.
func (l Layer) Equal(o Layer) bool {
	return l.Raster.Equal(o.Raster) && slices.Equal(l.Ops, o.Ops)
}

// Clone returns a copy with its own Ops slice sharing l's geometry.
// Transient render state is not copied.
func (l Layer) Clone() Layer {
	return Layer{
		Raster: l.Raster,
		Ops:    slices.Clone(l.Ops),
	}
}
