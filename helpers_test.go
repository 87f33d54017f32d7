package mosaic

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mosaic/raster"
	"github.com/gogpu/mosaic/render"
)

var (
	opaqueBlack = color.RGBA{A: 255}
	red         = color.RGBA{R: 255, A: 255}
	blue        = color.RGBA{B: 255, A: 255}
)

func newTarget(w, h int) *render.PixmapTarget {
	return render.NewPixmapTarget(w, h)
}

func badFormatTarget(w, h int) *render.PixmapTarget {
	return render.NewPixmapTargetWithFormat(w, h, gputypes.TextureFormatR8Unorm)
}

// square returns a layer filling r with c.
func square(r image.Rectangle, c color.RGBA) Layer {
	return Layer{
		Raster: raster.Rect(r),
		Ops:    []PaintOp{Fill(c)},
	}
}

// tileRect returns the pixel rectangle of tile (col, row).
func tileRect(col, row int) image.Rectangle {
	return image.Rect(col*TileSize, row*TileSize, (col+1)*TileSize, (row+1)*TileSize)
}

// layerIDs returns the LayerRef ids of a tile's display list in order.
func layerIDs(t *Tile) []uint32 {
	var ids []uint32
	for n := range t.Nodes() {
		if n.Kind == NodeLayer {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// spans returns the segment spans listed for layer id in tile t.
func spans(t *Tile, id uint32) []Span {
	var out []Span
	var cur uint32
	var in bool
	for n := range t.Nodes() {
		switch n.Kind {
		case NodeLayer:
			cur, in = n.ID, true
		case NodeSegments:
			if in && cur == id {
				out = append(out, n.Span)
			}
		}
	}
	return out
}

// snapshot copies every tile's display list.
func snapshot(ts *Tiles) [][]LayerNode {
	out := make([][]LayerNode, ts.Len())
	ts.ForEach(func(t *Tile) {
		out[t.Index(ts.Width())] = slices.Collect(t.Nodes())
	})
	return out
}

// checkWellFormed verifies that every display list starts with a LayerRef,
// that LayerRefs ascend and that spans of a layer ascend.
func checkWellFormed(t *testing.T, ts *Tiles) {
	t.Helper()
	ts.ForEach(func(tile *Tile) {
		var haveLayer bool
		var lastID uint32
		lastHi := 0
		for n := range tile.Nodes() {
			switch n.Kind {
			case NodeLayer:
				if haveLayer && n.ID <= lastID {
					t.Errorf("tile (%d,%d): layer %d after %d", tile.Col, tile.Row, n.ID, lastID)
				}
				haveLayer, lastID, lastHi = true, n.ID, 0
			case NodeSegments:
				if !haveLayer {
					t.Errorf("tile (%d,%d): segments before any layer", tile.Col, tile.Row)
				}
				if n.Span.Lo < lastHi || n.Span.Len() <= 0 {
					t.Errorf("tile (%d,%d): bad span %v after %d", tile.Col, tile.Row, n.Span, lastHi)
				}
				lastHi = n.Span.Hi
			}
		}
	})
}
