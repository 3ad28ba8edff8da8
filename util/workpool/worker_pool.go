// Package workpool runs a work function in a fixed number of goroutines until
// the work runs out or the pool is cancelled.
package workpool

import (
	"context"
	"sync"
)

// WorkHandler processes one piece of work, or all of it, and returns. Return
// true if the handler should be called again and false once the work is done.
//
// The done channel is closed when the pool is cancelled, at which point the
// handler should return as soon as possible. A handler reading from a channel
// usually looks like:
//
//	func(done <-chan struct{}) bool {
//		select {
//		case job, ok := <-jobs:
//			if !ok {
//				return false
//			}
//			process(job)
//			return true
//		case <-done:
//			return false
//		}
//	}
type WorkHandler func(done <-chan struct{}) bool

// New creates a worker pool with a given handler function.
func New(numWorkers int, handler WorkHandler) *WorkPool {
	return &WorkPool{
		Handler: handler,
		Workers: numWorkers,
		done:    make(chan struct{}),
	}
}

// NewWithClose creates a worker pool with a given handler function and a function to call when shutting down.
func NewWithClose(numWorkers int, handler WorkHandler, close func()) *WorkPool {
	return &WorkPool{
		Handler: handler,
		Workers: numWorkers,
		done:    make(chan struct{}),
		Close:   close,
	}
}

// WorkPool manages running a WorkHandler in some number of goroutines.
type WorkPool struct {
	Handler WorkHandler
	Workers int
	Close   func()

	done       chan struct{}
	cancelOnce sync.Once
}

// Run starts the workers and blocks until every worker has returned, either
// because the handler ran out of work or because the pool was cancelled.
func (p *WorkPool) Run() {
	if p.done == nil {
		p.done = make(chan struct{})
	}
	if p.Close != nil {
		defer p.Close()
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-p.done:
					return
				default:
					if !p.Handler(p.done) {
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

// RunContext is Run, cancelling the pool when the context is done.
func (p *WorkPool) RunContext(ctx context.Context) {
	if p.done == nil {
		p.done = make(chan struct{})
	}
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			p.Cancel()
		case <-finished:
		}
	}()
	p.Run()
}

// Cancel signals the workers to stop. It may be called more than once and
// from any goroutine.
func (p *WorkPool) Cancel() {
	p.cancelOnce.Do(func() {
		close(p.done)
	})
}
