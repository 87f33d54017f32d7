package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines that paints tiles.
//
// Each worker owns a queue. ExecuteAll hands every worker a contiguous
// chunk of the batch, so neighbouring items (and, with Hilbert-ordered
// batches, neighbouring tiles) run on the same goroutine. A worker that
// runs dry steals from the other queues before blocking.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	quit    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool of n workers. n <= 0 means GOMAXPROCS.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: n,
		queues:  make([]chan func(), n),
		quit:    make(chan struct{}),
	}
	depth := max(n*4, 8)
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(n)
	for i := range n {
		go p.loop(i)
	}
	return p
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case fn := <-own:
			fn()
		case <-p.quit:
			for {
				select {
				case fn := <-own:
					fn()
				default:
					return
				}
			}
		}
	}
}

// steal takes one item from any queue but id's, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.queues[(id+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item of work and waits for all of them.
//
// Worker k receives the k-th contiguous chunk of work, in order. On a
// closed pool ExecuteAll returns without running anything.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))

	chunk := (len(work) + p.workers - 1) / p.workers
	for i, fn := range work {
		item := func() {
			defer pending.Done()
			fn()
		}
		select {
		case p.queues[i/chunk] <- item:
		case <-p.quit:
			pending.Done()
		}
	}
	pending.Wait()
}

// Close waits for queued work to finish and stops the workers.
// Calling Close more than once is harmless.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.quit)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
