package mosaic

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"log/slog"
	"slices"

	"github.com/gogpu/mosaic/internal/parallel"
	"github.com/gogpu/mosaic/raster"
)

var errNilBuffer = errors.New("mosaic: render: nil buffer")

// Map is the scene: an id-ordered set of layers and the tile grid they are
// binned into.
//
// Print and Remove mark the tiles a change affects. Render rebuilds the
// display lists of those tiles, then paints every tile in parallel.
//
// A Map is not safe for concurrent use, and must not be modified from
// inside a Painter.
type Map struct {
	width, height int

	layers map[uint32]*Layer
	ids    []uint32 // ascending

	tiles  *Tiles
	damage *parallel.DirtyRegion

	painter Painter
	workers int
	logger  *slog.Logger

	pool       *parallel.WorkerPool
	dispatcher *parallel.Dispatcher
}

// NewMap creates an empty scene for a width x height pixel canvas.
func NewMap(width, height int, opts ...Option) *Map {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	width, height = max(width, 0), max(height, 0)
	tiles := newTiles(width, height)
	return &Map{
		width:   width,
		height:  height,
		layers:  make(map[uint32]*Layer),
		tiles:   tiles,
		damage:  parallel.NewDirtyRegion(tiles.Width(), tiles.Height()),
		painter: o.painter,
		workers: o.workers,
		logger:  o.logger,
	}
}

// Width returns the canvas width in pixels.
func (m *Map) Width() int { return m.width }

// Height returns the canvas height in pixels.
func (m *Map) Height() int { return m.height }

// Tiles returns the tile grid for inspection.
func (m *Map) Tiles() *Tiles { return m.tiles }

// Len returns the number of layers.
func (m *Map) Len() int { return len(m.ids) }

// IDs iterates over layer ids in ascending order, which is paint order.
func (m *Map) IDs() iter.Seq[uint32] {
	return slices.Values(m.ids)
}

// Layer returns a copy of the layer stored under id.
func (m *Map) Layer(id uint32) (Layer, bool) {
	l, ok := m.layers[id]
	if !ok {
		return Layer{}, false
	}
	return l.Clone(), true
}

// Global installs a layer covering the whole canvas, typically a background
// or clear.
func (m *Map) Global(id uint32, ops []PaintOp) {
	m.Print(id, Layer{
		Raster: raster.Rect(image.Rect(0, 0, m.width, m.height)),
		Ops:    ops,
	})
}

// Print installs layer under id.
//
// Printing a layer without ops, or one equal to the layer already stored,
// does nothing. Otherwise the tiles under the previous geometry and under
// the new geometry are marked for rebuild.
func (m *Map) Print(id uint32, layer Layer) {
	if len(layer.Ops) == 0 {
		return
	}

	if old, ok := m.layers[id]; ok {
		if old.Equal(layer) {
			return
		}
		m.tiles.touch(old.Raster)
	} else {
		i, _ := slices.BinarySearch(m.ids, id)
		m.ids = slices.Insert(m.ids, i, id)
	}

	l := layer.Clone()
	l.fresh = true
	m.layers[id] = &l
	m.tiles.touch(l.Raster)
}

// Remove deletes the layer stored under id and marks its tiles for rebuild.
// Unknown ids are ignored.
func (m *Map) Remove(id uint32) {
	l, ok := m.layers[id]
	if !ok {
		return
	}
	m.tiles.touch(l.Raster)
	delete(m.layers, id)
	if i, found := slices.BinarySearch(m.ids, id); found {
		m.ids = slices.Delete(m.ids, i, i+1)
	}
}

// Reset empties every tile's display list. Layers and dirty flags are left
// alone; follow with Invalidate to rebuild everything on the next Render.
func (m *Map) Reset() {
	m.tiles.clearNodes()
}

// Invalidate marks every layer as changed, so the next Render rebuilds every
// tile any layer covers.
func (m *Map) Invalidate() {
	for _, l := range m.layers {
		l.fresh = true
	}
}

// Render brings every stale display list up to date, then paints every tile
// into buf.
//
// Tiles are painted in parallel. Painter errors are joined in tile order;
// the dirty flags are cleared whether or not painting succeeded.
func (m *Map) Render(buf ColorBuffer) error {
	if buf == nil {
		return errNilBuffer
	}

	st := m.reprint()
	err := m.paint(buf)
	m.tiles.clearDirty()

	var workers, damaged int
	if m.pool != nil {
		workers = m.pool.Workers()
	}
	if m.damage != nil {
		damaged = m.damage.Count()
	}
	m.log().Debug("mosaic: render",
		"dirty", st.dirty,
		"fresh", st.fresh,
		"partial", st.partial,
		"nodes", st.nodes,
		"workers", workers,
		"damaged", damaged)

	if err != nil {
		m.log().Warn("mosaic: paint failed", "err", err)
		return fmt.Errorf("mosaic: render: %w", err)
	}
	return nil
}

// paint runs the painter once per tile on the worker pool.
func (m *Map) paint(buf ColorBuffer) error {
	if m.tiles.Len() == 0 {
		return nil
	}
	return m.dispatch().Run(func(idx int) error {
		t := &m.tiles.tiles[idx]
		v := TileView{
			Col:          t.Col,
			Row:          t.Row,
			Index:        idx,
			CanvasWidth:  m.width,
			CanvasHeight: m.height,
			Rebuilt:      t.needsRender,
			nodes:        t.nodes,
			layers:       m.layers,
		}
		if err := m.painter.PaintTile(v, buf); err != nil {
			return fmt.Errorf("tile (%d,%d): %w", t.Col, t.Row, err)
		}
		if v.Rebuilt {
			m.damage.Mark(t.Col, t.Row)
		}
		return nil
	})
}

// Damage returns the canvas rectangles whose tiles were rebuilt and painted
// since the previous call, and forgets them.
func (m *Map) Damage() []image.Rectangle {
	if m.damage == nil {
		return nil
	}
	return m.damage.TakeRects(m.width, m.height)
}

// Close stops the worker goroutines. Render starts them again if needed.
func (m *Map) Close() {
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
		m.dispatcher = nil
	}
}

func (m *Map) dispatch() *parallel.Dispatcher {
	if m.dispatcher == nil || !m.pool.IsRunning() {
		m.pool = parallel.NewWorkerPool(m.workers)
		m.dispatcher = parallel.NewDispatcher(m.pool, m.tiles.Width(), m.tiles.Height())
	}
	return m.dispatcher
}

func (m *Map) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return Logger()
}
