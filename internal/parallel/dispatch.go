package parallel

import (
	"cmp"
	"errors"
	"math/bits"
	"slices"

	"github.com/google/hilbert"
)

// Dispatcher runs one work item per tile of a fixed grid on a WorkerPool.
//
// Tiles are queued along a Hilbert curve rather than row by row, so tiles
// processed close in time are also close on the canvas and tend to share
// the same layers' geometry in cache.
type Dispatcher struct {
	pool  *WorkerPool
	order []int
}

// NewDispatcher creates a dispatcher for a cols x rows grid.
// The pool is borrowed; closing it is the caller's job.
func NewDispatcher(pool *WorkerPool, cols, rows int) *Dispatcher {
	return &Dispatcher{
		pool:  pool,
		order: HilbertOrder(cols, rows),
	}
}

// Run calls fn once for every tile index and waits for all calls to return.
// Errors are joined in tile index order, independent of scheduling.
func (d *Dispatcher) Run(fn func(index int) error) error {
	if len(d.order) == 0 || fn == nil {
		return nil
	}

	errs := make([]error, len(d.order))
	work := make([]func(), len(d.order))
	for i, idx := range d.order {
		work[i] = func() {
			errs[idx] = fn(idx)
		}
	}
	d.pool.ExecuteAll(work)
	return errors.Join(errs...)
}

// HilbertOrder returns the row-major indices of a cols x rows grid sorted by
// their distance along a Hilbert curve covering the grid.
func HilbertOrder(cols, rows int) []int {
	if cols <= 0 || rows <= 0 {
		return nil
	}

	order := make([]int, cols*rows)
	for i := range order {
		order[i] = i
	}

	side := 1 << bits.Len(uint(max(cols, rows)-1))
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return order
	}

	dist := make([]int, len(order))
	for i := range order {
		t, err := h.MapInverse(i%cols, i/cols)
		if err != nil {
			return order
		}
		dist[i] = t
	}

	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(dist[a], dist[b])
	})
	return order
}
