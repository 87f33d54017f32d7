package mosaic

import (
	"image"
	"iter"
	"slices"

	"github.com/gogpu/mosaic/raster"
)

// TileView is the read-only state a Painter gets for one tile.
//
// A view is only valid for the duration of the PaintTile call it is passed
// to. It exposes no way to change the scene.
type TileView struct {
	Col, Row int

	// Index is Col + Row*gridWidth.
	Index int

	CanvasWidth  int
	CanvasHeight int

	// Rebuilt reports whether the display list was rebuilt in this render.
	Rebuilt bool

	nodes  []LayerNode
	layers map[uint32]*Layer
}

// Bounds returns the tile's pixel rectangle clipped to the canvas.
func (v TileView) Bounds() image.Rectangle {
	x, y := v.Col*TileSize, v.Row*TileSize
	return image.Rect(x, y, x+TileSize, y+TileSize).
		Intersect(image.Rect(0, 0, v.CanvasWidth, v.CanvasHeight))
}

// Len returns the number of display list entries.
func (v TileView) Len() int {
	return len(v.nodes)
}

// Nodes iterates over the display list in paint order.
func (v TileView) Nodes() iter.Seq[LayerNode] {
	return slices.Values(v.nodes)
}

// Layer looks up a layer referenced by the display list.
func (v TileView) Layer(id uint32) (LayerView, bool) {
	l, ok := v.layers[id]
	if !ok {
		return LayerView{}, false
	}
	return LayerView{id: id, l: l}, true
}

// LayerView is read-only access to one layer's geometry and operations.
type LayerView struct {
	id uint32
	l  *Layer
}

// ID returns the layer id.
func (lv LayerView) ID() uint32 {
	return lv.id
}

// Translation returns the layer's pixel translation.
func (lv LayerView) Translation() image.Point {
	return lv.l.Raster.Translation()
}

// Len returns the number of segments.
func (lv LayerView) Len() int {
	return lv.l.Raster.Len()
}

// Segment returns segment i in canvas coordinates.
func (lv LayerView) Segment(i int) raster.Segment {
	r := lv.l.Raster
	return r.Segment(i).Add(r.Offset())
}

// Segments iterates over the segments of span in canvas coordinates.
func (lv LayerView) Segments(span Span) iter.Seq[raster.Segment] {
	return func(yield func(raster.Segment) bool) {
		r := lv.l.Raster
		off := r.Offset()
		for i := span.Lo; i < span.Hi; i++ {
			if !yield(r.Segment(i).Add(off)) {
				return
			}
		}
	}
}

// NumOps returns the number of paint operations.
func (lv LayerView) NumOps() int {
	return len(lv.l.Ops)
}

// Ops iterates over the paint operations in order.
func (lv LayerView) Ops() iter.Seq[PaintOp] {
	return slices.Values(lv.l.Ops)
}
