package pool

import (
	"context"
	"sync"
	"sync/atomic"
)

// Pool runs submitted funcs on a fixed set of goroutines.
type Pool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	closed  atomic.Bool
	closeCh chan struct{}
}

func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs:    make(chan func(), n*2),
		closeCh: make(chan struct{}),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case f := <-p.jobs:
			if f != nil {
				f()
			}
		case <-p.closeCh:
			return
		}
	}
}

// Submit blocks until a worker slot is queued, ctx is done or the pool closes.
func (p *Pool) Submit(ctx context.Context, f func()) error {
	if p.closed.Load() {
		return ErrClosed
	}
	select {
	case p.jobs <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closeCh:
		return ErrClosed
	}
}

// Close stops the workers. Funcs still buffered are dropped.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	close(p.closeCh)
}

func (p *Pool) Wait() {
	p.wg.Wait()
}
