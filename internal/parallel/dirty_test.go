package parallel

import (
	"image"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// DirtyRegion Tests
// =============================================================================

func TestDirtyRegion_CreateInvalid(t *testing.T) {
	if NewDirtyRegion(0, 4) != nil {
		t.Error("NewDirtyRegion(0, 4) should return nil")
	}
}

func TestDirtyRegion_Mark(t *testing.T) {
	d := NewDirtyRegion(10, 10)
	d.Mark(3, 7)
	d.Mark(-1, 0)
	d.Mark(10, 0)
	d.Mark(0, 10)

	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}
	want := []image.Rectangle{image.Rect(192, 448, 256, 512)}
	if diff := cmp.Diff(want, d.TakeRects(640, 640)); diff != "" {
		t.Errorf("TakeRects mismatch (-want +got):\n%s", diff)
	}
}

func TestDirtyRegion_SpansWords(t *testing.T) {
	d := NewDirtyRegion(9, 9) // 81 tiles, two words
	d.Mark(8, 8)
	d.Mark(0, 7) // bit 63
	d.Mark(1, 7) // bit 64

	if d.Count() != 3 {
		t.Errorf("Count() = %d, want 3", d.Count())
	}
	want := []image.Rectangle{
		image.Rect(0, 448, 128, 512),
		image.Rect(512, 512, 576, 576),
	}
	if diff := cmp.Diff(want, d.TakeRects(576, 576)); diff != "" {
		t.Errorf("TakeRects mismatch (-want +got):\n%s", diff)
	}
}

func TestDirtyRegion_TakeRects(t *testing.T) {
	tests := []struct {
		name          string
		tilesX        int
		tilesY        int
		width, height int
		mark          [][2]int
		want          []image.Rectangle
	}{
		{
			name:   "empty",
			tilesX: 3, tilesY: 3, width: 192, height: 192,
		},
		{
			name:   "merged run",
			tilesX: 4, tilesY: 2, width: 256, height: 128,
			mark: [][2]int{{1, 0}, {2, 0}, {0, 1}},
			want: []image.Rectangle{
				image.Rect(64, 0, 192, 64),
				image.Rect(0, 64, 64, 128),
			},
		},
		{
			name:   "no merge across rows",
			tilesX: 2, tilesY: 2, width: 128, height: 128,
			mark: [][2]int{{1, 0}, {0, 1}},
			want: []image.Rectangle{
				image.Rect(64, 0, 128, 64),
				image.Rect(0, 64, 64, 128),
			},
		},
		{
			name:   "clipped to canvas",
			tilesX: 2, tilesY: 2, width: 100, height: 70,
			mark: [][2]int{{0, 1}, {1, 1}},
			want: []image.Rectangle{image.Rect(0, 64, 100, 70)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirtyRegion(tt.tilesX, tt.tilesY)
			for _, m := range tt.mark {
				d.Mark(m[0], m[1])
			}
			got := d.TakeRects(tt.width, tt.height)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TakeRects mismatch (-want +got):\n%s", diff)
			}
			if d.Count() != 0 {
				t.Error("TakeRects should clear the region")
			}
		})
	}
}

func TestDirtyRegion_ConcurrentMark(t *testing.T) {
	d := NewDirtyRegion(16, 16)

	var wg sync.WaitGroup
	for ty := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tx := range 16 {
				d.Mark(tx, ty)
			}
		}()
	}
	wg.Wait()

	if d.Count() != 256 {
		t.Errorf("Count() = %d, want 256", d.Count())
	}
}
