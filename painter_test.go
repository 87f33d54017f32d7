package mosaic

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mosaic/render"
)

// =============================================================================
// CoveragePainter Tests
// =============================================================================

func TestCoveragePainterGlobal(t *testing.T) {
	for _, format := range []gputypes.TextureFormat{
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatBGRA8Unorm,
	} {
		t.Run(format.String(), func(t *testing.T) {
			m := NewMap(100, 70)
			defer m.Close()

			m.Global(0, []PaintOp{Clear(red)})
			target := render.NewPixmapTargetWithFormat(100, 70, format)
			if err := m.Render(target); err != nil {
				t.Fatalf("Render() = %v", err)
			}

			for y := range 70 {
				for x := range 100 {
					if got := target.RGBAAt(x, y); got != red {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, red)
					}
				}
			}
		})
	}
}

func TestCoveragePainterSquares(t *testing.T) {
	m := NewMap(256, 192)
	defer m.Close()

	m.Global(0, []PaintOp{Clear(opaqueBlack)})
	// Spans three tile columns; tile (1,0) holds none of its segments.
	m.Print(1, square(image.Rect(10, 10, 180, 50), red))
	// Crosses into tile (1,1) from the left.
	m.Print(2, square(image.Rect(40, 80, 100, 120), blue))

	target := newTarget(256, 192)
	if err := m.Render(target); err != nil {
		t.Fatalf("Render() = %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"background", 5, 5, opaqueBlack},
		{"wide square left tile", 30, 30, red},
		{"wide square middle tile", 100, 30, red},
		{"wide square right tile", 170, 30, red},
		{"right of wide square", 200, 30, opaqueBlack},
		{"below wide square", 100, 60, opaqueBlack},
		{"blue left tile", 50, 100, blue},
		{"blue right tile", 90, 100, blue},
		{"right of blue", 110, 100, opaqueBlack},
		{"far corner", 250, 190, opaqueBlack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := target.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCoveragePainterOffCanvas(t *testing.T) {
	m := NewMap(128, 128)
	defer m.Close()

	m.Global(0, []PaintOp{Clear(opaqueBlack)})
	m.Print(1, square(image.Rect(-40, 10, 90, 30), red))

	target := newTarget(128, 128)
	if err := m.Render(target); err != nil {
		t.Fatalf("Render() = %v", err)
	}

	for _, x := range []int{0, 20, 70, 89} {
		if got := target.RGBAAt(x, 20); got != red {
			t.Errorf("pixel (%d,20) = %v, want red", x, got)
		}
	}
	if got := target.RGBAAt(95, 20); got != opaqueBlack {
		t.Errorf("pixel (95,20) = %v, want black", got)
	}
}

func TestCoveragePainterClearReplacesInside(t *testing.T) {
	m := NewMap(64, 64)
	defer m.Close()

	m.Global(0, []PaintOp{Clear(red)})
	m.Print(1, Layer{
		Raster: square(image.Rect(16, 16, 48, 48), blue).Raster,
		Ops:    []PaintOp{Clear(color.RGBA{})},
	})

	target := newTarget(64, 64)
	if err := m.Render(target); err != nil {
		t.Fatalf("Render() = %v", err)
	}

	if got := target.RGBAAt(32, 32); got != (color.RGBA{}) {
		t.Errorf("inside cleared square = %v, want transparent", got)
	}
	if got := target.RGBAAt(8, 8); got != red {
		t.Errorf("outside cleared square = %v, want red", got)
	}
}

// TestCoveragePainterIncrementalPixels compares pixels after a sequence of
// edits against a map rendered once in the final state.
func TestCoveragePainterIncrementalPixels(t *testing.T) {
	const w, h = 200, 150

	inc := NewMap(w, h)
	defer inc.Close()
	incTarget := newTarget(w, h)

	inc.Global(0, []PaintOp{Clear(opaqueBlack)})
	inc.Print(1, square(image.Rect(10, 10, 120, 70), red))
	inc.Print(2, square(image.Rect(90, 40, 190, 140), blue))
	if err := inc.Render(incTarget); err != nil {
		t.Fatal(err)
	}
	inc.Print(2, square(image.Rect(30, 60, 100, 130), blue))
	inc.Print(3, square(image.Rect(150, 5, 160, 145), red))
	if err := inc.Render(incTarget); err != nil {
		t.Fatal(err)
	}

	full := NewMap(w, h)
	defer full.Close()
	fullTarget := newTarget(w, h)

	full.Global(0, []PaintOp{Clear(opaqueBlack)})
	full.Print(1, square(image.Rect(10, 10, 120, 70), red))
	full.Print(2, square(image.Rect(30, 60, 100, 130), blue))
	full.Print(3, square(image.Rect(150, 5, 160, 145), red))
	if err := full.Render(fullTarget); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(incTarget.Pixels(), fullTarget.Pixels()) {
		t.Error("incremental render differs from a full render")
	}
}

func TestCoveragePainterUnsupportedFormat(t *testing.T) {
	m := NewMap(130, 64)
	defer m.Close()

	err := m.Render(badFormatTarget(130, 64))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Render() error = %v, want ErrUnsupportedFormat", err)
	}
	if m.Tiles().DirtyCount() != 0 {
		t.Error("dirty flags should be cleared even when painting fails")
	}
}

func TestCoveragePainterShortBuffer(t *testing.T) {
	m := NewMap(64, 64)
	defer m.Close()

	m.Global(0, []PaintOp{Clear(red)})
	err := m.Render(newTarget(64, 32))
	if !errors.Is(err, render.ErrOutOfRange) {
		t.Fatalf("Render() error = %v, want render.ErrOutOfRange", err)
	}
}

// =============================================================================
// Painter Boundary Tests
// =============================================================================

func TestTileView(t *testing.T) {
	type seen struct {
		index   int
		bounds  image.Rectangle
		rebuilt bool
		nodes   int
	}
	got := make([]seen, 4)

	p := PainterFunc(func(v TileView, _ ColorBuffer) error {
		got[v.Index] = seen{v.Index, v.Bounds(), v.Rebuilt, v.Len()}
		return nil
	})

	m := NewMap(100, 80, WithPainter(p))
	defer m.Close()

	m.Print(1, square(image.Rect(70, 70, 90, 75), red))
	if err := m.Render(newTarget(100, 80)); err != nil {
		t.Fatal(err)
	}

	want := []seen{
		{0, image.Rect(0, 0, 64, 64), false, 0},
		{1, image.Rect(64, 0, 100, 64), false, 0},
		{2, image.Rect(0, 64, 64, 80), false, 0},
		{3, image.Rect(64, 64, 100, 80), true, 2},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tile %d view = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLayerView(t *testing.T) {
	var ids []uint32
	var first LayerNode
	var views []LayerView

	p := PainterFunc(func(v TileView, _ ColorBuffer) error {
		for n := range v.Nodes() {
			switch n.Kind {
			case NodeLayer:
				lv, ok := v.Layer(n.ID)
				if !ok {
					return errors.New("missing layer")
				}
				ids = append(ids, lv.ID())
				views = append(views, lv)
			case NodeSegments:
				first = n
			}
		}
		return nil
	})

	m := NewMap(64, 64, WithPainter(p), WithWorkers(1))
	defer m.Close()

	l := square(image.Rect(0, 0, 8, 4), red)
	l.Raster = l.Raster.Translated(image.Pt(10, 20))
	m.Print(9, l)
	if err := m.Render(newTarget(64, 64)); err != nil {
		t.Fatal(err)
	}

	if len(ids) != 1 || ids[0] != 9 {
		t.Fatalf("layer ids = %v, want [9]", ids)
	}
	lv := views[0]
	if lv.Translation() != image.Pt(10, 20) || lv.Len() != 8 || lv.NumOps() != 1 {
		t.Errorf("view = translation %v len %d ops %d", lv.Translation(), lv.Len(), lv.NumOps())
	}

	var n int
	for s := range lv.Segments(first.Span) {
		if n == 0 && s.P0 != first.Start {
			t.Errorf("first segment starts at %v, want %v", s.P0, first.Start)
		}
		if s != lv.Segment(first.Span.Lo+n) {
			t.Errorf("Segments and Segment disagree at %d", n)
		}
		n++
	}
	if n != first.Span.Len() {
		t.Errorf("Segments yielded %d, want %d", n, first.Span.Len())
	}
	for op := range lv.Ops() {
		if op != Fill(red) {
			t.Errorf("op = %v, want Fill(red)", op)
		}
	}
}

func TestRenderJoinsPainterErrors(t *testing.T) {
	errOdd := errors.New("odd tile")
	p := PainterFunc(func(v TileView, _ ColorBuffer) error {
		if v.Index%2 == 1 {
			return errOdd
		}
		return nil
	})

	m := NewMap(256, 64, WithPainter(p))
	defer m.Close()

	err := m.Render(newTarget(256, 64))
	if !errors.Is(err, errOdd) {
		t.Fatalf("Render() error = %v, want errOdd", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("Render() should join one error per failing tile, got %v", err)
	}
}
