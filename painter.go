package mosaic

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/mosaic/internal/parallel"
	"github.com/gogpu/mosaic/raster"
)

// ErrUnsupportedFormat is returned when a buffer's pixel format cannot be
// painted.
var ErrUnsupportedFormat = errors.New("mosaic: unsupported pixel format")

// ColorBuffer is the destination a Map renders into.
//
// WriteAt may be called concurrently for disjoint ranges. Painters only
// write the rows of the tile they are painting.
type ColorBuffer interface {
	Format() gputypes.TextureFormat
	Stride() int
	io.WriterAt
}

// Painter turns one tile's display list into pixels.
//
// PaintTile is called concurrently for different tiles during Render.
type Painter interface {
	PaintTile(v TileView, buf ColorBuffer) error
}

// PainterFunc adapts an ordinary function to the Painter interface.
type PainterFunc func(v TileView, buf ColorBuffer) error

// PaintTile calls f(v, buf).
func (f PainterFunc) PaintTile(v TileView, buf ColorBuffer) error {
	return f(v, buf)
}

// CoveragePainter is the default Painter.
//
// For each layer in the display list it accumulates nonzero-winding
// coverage of the layer's segments with golang.org/x/image/vector, then
// applies the layer's operations through that mask. The tile starts
// transparent, so every tile is repainted from its display list alone.
type CoveragePainter struct{}

// PaintTile paints v into buf. RGBA8Unorm and BGRA8Unorm buffers are
// supported.
func (CoveragePainter) PaintTile(v TileView, buf ColorBuffer) error {
	var bgra bool
	switch f := buf.Format(); f {
	case gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatBGRA8Unorm:
		bgra = true
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}

	b := v.Bounds()
	if b.Empty() {
		return nil
	}

	tile := parallel.GetTile(b.Dx(), b.Dy())
	defer parallel.PutTile(tile)
	tile.X, tile.Y = v.Col, v.Row

	c := newCoverage(tile)
	for n := range v.Nodes() {
		switch n.Kind {
		case NodeLayer:
			c.flush()
			c.layer, c.ok = v.Layer(n.ID)
		case NodeSegments:
			if !c.ok {
				continue
			}
			for s := range c.layer.Segments(n.Span) {
				c.add(s)
			}
		}
	}
	c.flush()

	return writeTile(buf, tile, bgra)
}

// coverage accumulates one layer at a time into a tile.
type coverage struct {
	tile   *parallel.Tile
	origin image.Point
	dst    *image.RGBA
	mask   *image.Alpha
	z      *vector.Rasterizer

	layer   LayerView
	ok      bool
	pending bool
}

func newCoverage(tile *parallel.Tile) *coverage {
	return &coverage{
		tile:   tile,
		origin: tile.Bounds().Min,
		dst:    tile.RGBA(),
		mask:   tile.Alpha(),
		z:      vector.NewRasterizer(tile.Width, tile.Height),
	}
}

// add accumulates s, given in canvas coordinates.
//
// The segment is closed against the tile's right edge, so each pixel row
// of the accumulation buffer sums to zero on its own. Segments entirely
// right of the tile contribute nothing inside it and are skipped; segments
// entirely left of it count as a full edge at column 0.
func (c *coverage) add(s raster.Segment) {
	w := float32(c.tile.Width)
	x0 := fixedToFloat(s.P0.X) - float32(c.origin.X)
	y0 := fixedToFloat(s.P0.Y) - float32(c.origin.Y)
	x1 := fixedToFloat(s.P1.X) - float32(c.origin.X)
	y1 := fixedToFloat(s.P1.Y) - float32(c.origin.Y)

	if x0 >= w && x1 >= w {
		return
	}
	if x0 <= 0 && x1 <= 0 {
		x0, x1 = 0, 0
	}

	c.z.MoveTo(x0, y0)
	c.z.LineTo(x1, y1)
	c.z.LineTo(w, y1)
	c.z.LineTo(w, y0)
	c.z.ClosePath()
	c.pending = true
}

// flush rasterizes the accumulated coverage and applies the current
// layer's operations through it.
func (c *coverage) flush() {
	if !c.pending {
		return
	}
	c.pending = false

	clear(c.mask.Pix)
	c.z.Draw(c.mask, c.mask.Bounds(), image.Opaque, image.Point{})
	c.z.Reset(c.tile.Width, c.tile.Height)

	for op := range c.layer.Ops() {
		switch op.Op {
		case draw.Src:
			replace(c.dst, c.mask, op.Color)
		default:
			draw.DrawMask(c.dst, c.dst.Bounds(), image.NewUniform(op.Color), image.Point{},
				c.mask, image.Point{}, draw.Over)
		}
	}
}

// replace sets dst to col where mask is opaque, interpolating where it is
// partial: dst = col*m + dst*(1-m).
func replace(dst *image.RGBA, mask *image.Alpha, col color.RGBA) {
	src := [4]uint32{uint32(col.R), uint32(col.G), uint32(col.B), uint32(col.A)}
	for y := range mask.Rect.Dy() {
		mrow := mask.Pix[y*mask.Stride : y*mask.Stride+mask.Rect.Dx()]
		drow := dst.Pix[y*dst.Stride:]
		for x, m := range mrow {
			if m == 0 {
				continue
			}
			a := uint32(m)
			px := drow[x*4 : x*4+4 : x*4+4]
			for i := range px {
				px[i] = uint8((src[i]*a + uint32(px[i])*(255-a) + 127) / 255)
			}
		}
	}
}

// writeTile copies the tile's rows into buf at the tile's canvas position.
func writeTile(buf ColorBuffer, tile *parallel.Tile, bgra bool) error {
	origin := tile.Bounds().Min
	stride := buf.Stride()
	rowBytes := tile.Width * 4

	var swapped []byte
	if bgra {
		swapped = make([]byte, rowBytes)
	}

	for y := range tile.Height {
		row := tile.Data[y*tile.Stride() : y*tile.Stride()+rowBytes]
		if bgra {
			for i := 0; i < rowBytes; i += 4 {
				swapped[i+0] = row[i+2]
				swapped[i+1] = row[i+1]
				swapped[i+2] = row[i+0]
				swapped[i+3] = row[i+3]
			}
			row = swapped
		}
		off := int64((origin.Y+y)*stride + origin.X*4)
		if _, err := buf.WriteAt(row, off); err != nil {
			return err
		}
	}
	return nil
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
