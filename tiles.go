package mosaic

import (
	"iter"
	"slices"

	"github.com/gogpu/mosaic/raster"
)

// TileSize is the width and height of a tile in pixels.
const TileSize = raster.TileSize

// Tile is one grid cell: its display list and whether it must be rebuilt.
//
// Tiles are only changed by the Map on the caller's goroutine. During
// painting they are read through TileView.
type Tile struct {
	Col, Row int

	needsRender bool
	nodes       []LayerNode
}

// NeedsRender reports whether the display list is stale.
func (t *Tile) NeedsRender() bool {
	return t.needsRender
}

// Len returns the number of display list entries.
func (t *Tile) Len() int {
	return len(t.nodes)
}

// Nodes iterates over the display list in paint order.
func (t *Tile) Nodes() iter.Seq[LayerNode] {
	return slices.Values(t.nodes)
}

// Index returns the row-major position of the tile in a grid that is
// gridWidth tiles wide.
func (t *Tile) Index(gridWidth int) int {
	return t.Col + t.Row*gridWidth
}

// Tiles is the fixed grid of tiles covering the canvas.
//
// The grid is ceil(width/TileSize) x ceil(height/TileSize) and is never
// resized. Tiles are stored row-major for cache-friendly traversal.
type Tiles struct {
	cols, rows int
	tiles      []Tile
}

func newTiles(width, height int) *Tiles {
	cols := (max(width, 0) + TileSize - 1) / TileSize
	rows := (max(height, 0) + TileSize - 1) / TileSize

	ts := &Tiles{
		cols:  cols,
		rows:  rows,
		tiles: make([]Tile, cols*rows),
	}
	for row := range rows {
		for col := range cols {
			t := &ts.tiles[row*cols+col]
			t.Col, t.Row = col, row
		}
	}
	return ts
}

// Width returns the number of tile columns.
func (ts *Tiles) Width() int {
	return ts.cols
}

// Height returns the number of tile rows.
func (ts *Tiles) Height() int {
	return ts.rows
}

// Len returns the total number of tiles.
func (ts *Tiles) Len() int {
	return len(ts.tiles)
}

// At returns the tile at (col, row), or nil if outside the grid.
func (ts *Tiles) At(col, row int) *Tile {
	if col < 0 || col >= ts.cols || row < 0 || row >= ts.rows {
		return nil
	}
	return &ts.tiles[row*ts.cols+col]
}

// ForEach calls fn for every tile in row-major order.
func (ts *Tiles) ForEach(fn func(*Tile)) {
	for i := range ts.tiles {
		fn(&ts.tiles[i])
	}
}

// ForEachDirty calls fn for every tile awaiting a rebuild, in row-major order.
func (ts *Tiles) ForEachDirty(fn func(*Tile)) {
	for i := range ts.tiles {
		if ts.tiles[i].needsRender {
			fn(&ts.tiles[i])
		}
	}
}

// DirtyCount returns the number of tiles awaiting a rebuild.
func (ts *Tiles) DirtyCount() int {
	n := 0
	for i := range ts.tiles {
		if ts.tiles[i].needsRender {
			n++
		}
	}
	return n
}

// touch marks every tile the raster covers as dirty and returns how many
// tiles were newly marked.
func (ts *Tiles) touch(r raster.Raster) int {
	marked := 0
	r.TileContour().Clip(ts.cols, ts.rows).ForEachTile(func(col, row int) {
		t := &ts.tiles[row*ts.cols+col]
		if !t.needsRender {
			t.needsRender = true
			marked++
		}
	})
	return marked
}

// pushLayer appends a LayerRef for id to every dirty tile the raster covers.
// Clean tiles keep their lists, so a layer re-emitted for a few tiles never
// duplicates its entry elsewhere.
func (ts *Tiles) pushLayer(id uint32, r raster.Raster) {
	node := LayerRef(id, r.Translation())
	r.TileContour().Clip(ts.cols, ts.rows).ForEachTile(func(col, row int) {
		t := &ts.tiles[row*ts.cols+col]
		if t.needsRender {
			t.nodes = append(t.nodes, node)
		}
	})
}

// bindSegment appends a SegmentSpan for span to every tile seg influences.
//
// seg is the first segment of span; every segment in span starts in the
// same tile. A row outside the grid drops the span, a negative column is
// clamped to 0. With onlyIfDirty set, clean tiles are skipped.
func (ts *Tiles) bindSegment(seg raster.Segment, span Span, r raster.Raster, onlyIfDirty bool) {
	col, row := r.SegmentTile(seg)
	col = max(col, 0)
	if row < 0 || row >= ts.rows {
		return
	}

	node := SegmentSpan(seg.Add(r.Offset()).P0, span)
	r.SegmentContour(seg).Clip(ts.cols, ts.rows).ForEachTileFrom(col, row, func(col, row int) {
		t := &ts.tiles[row*ts.cols+col]
		if onlyIfDirty && !t.needsRender {
			return
		}
		t.nodes = append(t.nodes, node)
	})
}

// clearNodes empties every display list, keeping capacity.
func (ts *Tiles) clearNodes() {
	for i := range ts.tiles {
		ts.tiles[i].nodes = ts.tiles[i].nodes[:0]
	}
}

// clearDirty marks every tile clean.
func (ts *Tiles) clearDirty() {
	for i := range ts.tiles {
		ts.tiles[i].needsRender = false
	}
}
