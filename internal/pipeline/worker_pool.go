package pipeline

import (
	"context"
	"sync"
	"time"
)

type Task func(ctx context.Context) error

type Result struct {
	Err error
}

// WorkerPool runs submitted tasks on a fixed set of goroutines, with an
// optional global rate limit shared by all workers.
type WorkerPool struct {
	workers  int
	tasks    chan Task
	wg       sync.WaitGroup
	mu       sync.RWMutex
	rate     <-chan time.Time
	ticker   *time.Ticker
	done     chan struct{}
	doneOnce sync.Once
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, buffer),
		done:    make(chan struct{}),
	}
}

// markDone unblocks pending Submit calls once the workers stop pulling
// tasks; without it a full buffer plus a cancelled context would park the
// producer forever.
func (p *WorkerPool) markDone() {
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *WorkerPool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
	if rps <= 0 {
		return
	}
	t := time.NewTicker(time.Second / time.Duration(rps))
	p.mu.Lock()
	p.ticker = t
	p.rate = t.C
	p.mu.Unlock()
}

// Submit queues a task, reporting false when the pool has shut down and
// the task will never run.
func (p *WorkerPool) Submit(t Task) bool {
	if p == nil || t == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.tasks <- t:
		return true
	case <-p.done:
		return false
	}
}

// Close stops accepting tasks; Run's result channel closes once queued
// tasks drain.
func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
	close(p.tasks)
}

func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	buf := p.workers * 1024
	if buf < 1 {
		buf = 1
	}
	out := make(chan Result, buf)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					p.markDone()
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							p.markDone()
							return
						case <-rate:
						}
					}
					err := t(ctx)
					select {
					case <-ctx.Done():
						p.markDone()
						return
					case out <- Result{Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.markDone()
		close(out)
	}()

	return out
}
