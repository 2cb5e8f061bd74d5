// Package pool provides the bounded worker pool behind asynchronous
// screening. It mirrors a core/max thread pool: core workers always run, a
// full queue spawns extra workers up to max, and when the queue is full at
// max size the submitting caller runs the job itself instead of dropping
// it.
package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"recruiting_portal_backend/platform/logger"
)

// Task is a single unit of screening work.
type Task func()

// extraIdleTimeout is how long a non-core worker waits for work before
// exiting.
const extraIdleTimeout = 30 * time.Second

// Pool is a bounded worker pool with caller-runs back-pressure.
type Pool struct {
	name  string
	core  int
	max   int
	tasks chan Task
	log   *logger.Logger

	mu      sync.Mutex
	workers int
	closed  bool

	wg       sync.WaitGroup
	inFlight atomic.Int64
	nextID   atomic.Int64
}

// New creates a pool with the given shape and starts its core workers.
func New(name string, core, max, queueSize int, log *logger.Logger) *Pool {
	p := &Pool{
		name:  name,
		core:  core,
		max:   max,
		tasks: make(chan Task, queueSize),
		log:   log,
	}
	for i := 0; i < core; i++ {
		p.startWorker(true)
	}
	return p
}

// Submit enqueues a task. When the queue is full it grows the pool toward
// max; when the pool is saturated the caller runs the task synchronously.
// Returns true when the task ran via a worker, false when the caller ran
// it.
func (p *Pool) Submit(task Task) bool {
	wrapped := p.wrap(task)

	sent, open := p.tryEnqueue(wrapped)
	if !open {
		// Late submissions during shutdown still execute; work is never
		// dropped.
		wrapped()
		return false
	}
	if sent {
		return true
	}

	// Queue full: grow toward max, then retry once.
	if p.tryStartExtraWorker() {
		if sent, open = p.tryEnqueue(wrapped); sent {
			return true
		}
		if !open {
			wrapped()
			return false
		}
	}

	p.log.Warn("worker_pool_saturated", "pool", p.name, "queue_size", cap(p.tasks))
	wrapped()
	return false
}

// tryEnqueue performs a non-blocking send while holding the mutex. Every
// send happens under the same lock as Shutdown's close of the channel, so
// a submitter can never hit a closed channel. Returns whether the task was
// queued and whether the pool was still open.
func (p *Pool) tryEnqueue(task Task) (sent, open bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, false
	}
	select {
	case p.tasks <- task:
		return true, true
	default:
		return false, true
	}
}

// QueueDepth reports the number of queued tasks.
func (p *Pool) QueueDepth() int {
	return len(p.tasks)
}

// InFlight reports the number of tasks currently executing.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Shutdown stops accepting new workers and waits for queued and in-flight
// work to drain, bounded by the context deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	// Closing under the mutex keeps the close ordered against the locked
	// sends in tryEnqueue.
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool %s did not drain: %w", p.name, ctx.Err())
	}
}

func (p *Pool) wrap(task Task) Task {
	return func() {
		p.inFlight.Add(1)
		defer p.inFlight.Add(-1)
		task()
	}
}

func (p *Pool) tryStartExtraWorker() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.workers >= p.max {
		return false
	}
	p.startWorkerLocked(false)
	return true
}

func (p *Pool) startWorker(isCore bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startWorkerLocked(isCore)
}

func (p *Pool) startWorkerLocked(isCore bool) {
	p.workers++
	name := fmt.Sprintf("%s-worker-%d", p.name, p.nextID.Add(1))
	p.wg.Add(1)
	go p.run(name, isCore)
}

func (p *Pool) run(name string, isCore bool) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		p.workers--
		p.mu.Unlock()
	}()

	p.log.Debug("worker_started", "worker", name, "core", isCore)

	if isCore {
		for task := range p.tasks {
			task()
		}
		p.log.Debug("worker_stopped", "worker", name)
		return
	}

	// Extra workers exit when idle so the pool shrinks back to core size.
	idle := time.NewTimer(extraIdleTimeout)
	defer idle.Stop()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				p.log.Debug("worker_stopped", "worker", name)
				return
			}
			task()
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(extraIdleTimeout)
		case <-idle.C:
			p.log.Debug("worker_idle_exit", "worker", name)
			return
		}
	}
}
