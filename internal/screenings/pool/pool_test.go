package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"recruiting_portal_backend/platform/logger"
)

func newTestPool(core, max, queue int) *Pool {
	return New("test", core, max, queue, logger.New("development"))
}

func TestPool_RunsSubmittedTasks(t *testing.T) {
	p := newTestPool(2, 5, 100)

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()

	if got := count.Load(); got != 50 {
		t.Fatalf("executed %d tasks, want 50", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestPool_CallerRunsWhenSaturated(t *testing.T) {
	// One permanent worker, no room to grow, queue of one.
	p := newTestPool(1, 1, 1)

	block := make(chan struct{})
	var wg sync.WaitGroup

	// Occupy the worker, then fill the queue.
	wg.Add(2)
	p.Submit(func() { defer wg.Done(); <-block })
	waitForInFlight(t, p, 1)
	p.Submit(func() { defer wg.Done() })

	// The pool is saturated, so this submission must run on the caller's
	// goroutine before Submit returns.
	ran := false
	viaWorker := p.Submit(func() { ran = true })
	if viaWorker {
		t.Fatal("expected caller-runs execution for saturated pool")
	}
	if !ran {
		t.Fatal("task did not run synchronously")
	}

	close(block)
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestPool_GrowsBeyondCoreUnderLoad(t *testing.T) {
	// Core worker blocked and queue full forces an extra worker.
	p := newTestPool(1, 2, 1)

	block := make(chan struct{})
	release := sync.OnceFunc(func() { close(block) })
	defer release()

	var wg sync.WaitGroup
	wg.Add(3)
	p.Submit(func() { defer wg.Done(); <-block }) // occupies the core worker
	waitForInFlight(t, p, 1)
	p.Submit(func() { defer wg.Done() }) // fills the queue

	// Queue is full but the pool may still grow: this must be accepted by
	// the extra worker rather than running on the caller.
	done := make(chan struct{})
	viaWorker := p.Submit(func() {
		defer wg.Done()
		close(done)
	})
	if !viaWorker {
		t.Fatal("expected the pool to grow instead of caller-runs")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("extra worker did not pick up the task")
	}

	release()
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	p := newTestPool(2, 2, 100)

	var count atomic.Int64
	for i := 0; i < 20; i++ {
		p.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if got := count.Load(); got != 20 {
		t.Fatalf("drained %d tasks, want 20", got)
	}
}

func TestPool_ShutdownTimeout(t *testing.T) {
	p := newTestPool(1, 1, 10)

	block := make(chan struct{})
	defer close(block)
	p.Submit(func() { <-block })
	waitForInFlight(t, p, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Shutdown(ctx); err == nil {
		t.Fatal("expected timeout error for blocked worker")
	}
}

func TestPool_SubmitConcurrentWithShutdown(t *testing.T) {
	// Submitters racing Shutdown must never send on the closed channel;
	// every task still runs, queued or caller-run.
	for _, queue := range []int{1, 100} {
		p := newTestPool(2, 4, queue)

		var count atomic.Int64
		const submitters = 4
		const perSubmitter = 500

		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < submitters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for j := 0; j < perSubmitter; j++ {
					p.Submit(func() { count.Add(1) })
				}
			}()
		}

		close(start)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.Shutdown(ctx); err != nil {
			t.Fatalf("queue %d: shutdown: %v", queue, err)
		}
		cancel()
		wg.Wait()

		deadline := time.Now().Add(2 * time.Second)
		for count.Load() != submitters*perSubmitter && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		if got := count.Load(); got != submitters*perSubmitter {
			t.Fatalf("queue %d: executed %d tasks, want %d", queue, got, submitters*perSubmitter)
		}
	}
}

func waitForInFlight(t *testing.T, p *Pool, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.InFlight() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("in-flight tasks never reached %d", want)
}
