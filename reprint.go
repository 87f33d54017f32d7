package mosaic

// reprintStats summarizes one reprint pass for logging.
type reprintStats struct {
	dirty   int // tiles rebuilt
	fresh   int // layers re-emitted because they changed
	partial int // unchanged layers re-emitted into rebuilt tiles
	nodes   int // display list entries written
}

// reprint rebuilds the display list of every dirty tile.
//
// It runs in three phases:
//
//  1. seed: every fresh layer marks its tiles dirty.
//  2. promote and clear: every layer listed in a dirty tile that is not
//     fresh becomes partial, then the tile's list is emptied.
//  3. re-emit: in ascending id order, every fresh or partial layer pushes a
//     LayerRef into its dirty tiles and binds its segments. Partial layers
//     only bind into dirty tiles. Both flags are then cleared.
//
// Afterwards every dirty tile lists exactly the layers covering it, in id
// order, and clean tiles are untouched.
func (m *Map) reprint() reprintStats {
	var st reprintStats

	// Phase 1
	for _, id := range m.ids {
		if l := m.layers[id]; l.fresh {
			m.tiles.touch(l.Raster)
		}
	}

	// Phase 2
	m.tiles.ForEachDirty(func(t *Tile) {
		st.dirty++
		for _, n := range t.nodes {
			if n.Kind != NodeLayer {
				continue
			}
			if l, ok := m.layers[n.ID]; ok && !l.fresh {
				l.partial = true
			}
		}
		t.nodes = t.nodes[:0]
	})

	// Phase 3
	for _, id := range m.ids {
		l := m.layers[id]
		if !l.fresh && !l.partial {
			continue
		}
		if l.fresh {
			st.fresh++
		} else {
			st.partial++
		}
		m.emit(id, l)
		l.fresh, l.partial = false, false
	}

	m.tiles.ForEachDirty(func(t *Tile) {
		st.nodes += len(t.nodes)
	})
	return st
}

// emit writes one layer into the tile lists. Consecutive segments starting
// in the same tile share a contour, so they are bound as a single span.
func (m *Map) emit(id uint32, l *Layer) {
	r := l.Raster
	m.tiles.pushLayer(id, r)

	onlyIfDirty := !l.fresh
	n := r.Len()
	for lo := 0; lo < n; {
		first := r.Segment(lo)
		col, row := r.SegmentTile(first)
		col = max(col, 0)

		hi := lo + 1
		for hi < n {
			c, rw := r.SegmentTile(r.Segment(hi))
			if max(c, 0) != col || rw != row {
				break
			}
			hi++
		}

		m.tiles.bindSegment(first, Span{Lo: lo, Hi: hi}, r, onlyIfDirty)
		lo = hi
	}
}
