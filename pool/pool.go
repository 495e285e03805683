package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/synckit/future"
	"github.com/utkarsh5026/synckit/queue"
)

var (
	// ErrNotStarted is returned when Submit, Drain, or Shutdown is called
	// before Start.
	ErrNotStarted = errors.New("pool not started")
	// ErrAlreadyStarted is returned by Start on a running pool.
	ErrAlreadyStarted = errors.New("pool already started")
	// ErrShutdown is returned by Submit once Shutdown has begun, and by
	// Shutdown itself when called twice. Rejection is explicit so a racing
	// submitter can tell the difference between a dropped task and one the
	// pool accepted.
	ErrShutdown = errors.New("pool shut down")
	// ErrShutdownTimeout is returned by Shutdown when workers did not
	// finish within the given timeout.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// ProcessFunc is the function a pool's workers run for each submitted task.
// It receives the pool's context and the task, and returns a result or an
// error. Errors and panics are captured into the task's future and never
// affect other tasks.
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Pool is a long-running worker pool. It is created unstarted by New;
// Start launches the workers, Submit hands them tasks, and Shutdown waits
// for everything in flight before terminating them.
//
// Type parameters:
//   - T: the input task type processed by workers
//   - R: the result type produced by processing tasks
type Pool[T, R any] struct {
	config *config[T, R]
	mu     sync.RWMutex
	state  *poolState[T, R]
}

// poolState holds the runtime state of a started pool: the task queue the
// workers feed from, lifecycle flags, and the channel closed when the last
// worker exits.
type poolState[T, R any] struct {
	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	shutdown atomic.Bool
	seq      atomic.Int64
	tasks    *queue.Queue[*submittedTask[T, R]]
	done     chan struct{} // closed when all workers have finished
}

// submittedTask pairs a task with the future its result will be published
// into. The id is the task's submission sequence number.
type submittedTask[T, R any] struct {
	task T
	id   int64
	fut  *future.Future[R]
}

// New creates an unstarted pool with the given options. No workers run
// until Start is called.
//
// Example:
//
//	p := pool.New[string, Response](
//	    pool.WithWorkerCount(8),
//	    pool.WithRateLimit(20, 5),
//	)
func New[T, R any](opts ...Option) *Pool[T, R] {
	return &Pool[T, R]{
		config: createConfig[T, R](opts...),
	}
}

// Start launches the pool's workers, each looping on the internal queue and
// running processFn for every task it pulls. It returns ErrAlreadyStarted
// on a running pool and ErrShutdown on one that has been shut down.
//
// The context bounds the lifetime of all task processing: cancelling it
// aborts workers even with tasks still queued, and the futures of tasks the
// workers never reached are failed with the context's error. For the usual
// run-to-completion lifecycle, pass context.Background() and rely on
// Shutdown.
func (p *Pool[T, R]) Start(ctx context.Context, processFn ProcessFunc[T, R]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != nil && p.state.shutdown.Load() {
		return ErrShutdown
	}
	if p.state != nil && p.state.started.Load() {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	state := &poolState[T, R]{
		ctx:    ctx,
		cancel: cancel,
		tasks:  queue.New[*submittedTask[T, R]](p.config.queueSize),
		done:   make(chan struct{}),
	}

	p.state = state
	state.started.Store(true)

	var g errgroup.Group
	for range p.config.workerCount {
		g.Go(func() error {
			return p.worker(ctx, state, processFn)
		})
	}

	go func() {
		_ = g.Wait()
		// Workers are gone; stop intake and fail any tasks they never
		// reached, so callers blocked on those futures observe the abort
		// instead of hanging. After a clean Shutdown the queue is already
		// empty and this drains nothing.
		state.tasks.Close()
		for {
			st, err := state.tasks.Get(context.Background())
			if err != nil {
				break
			}
			cause := state.ctx.Err()
			if cause == nil {
				cause = context.Canceled
			}
			_ = st.fut.Fail(cause)
			state.tasks.Done()
		}
		cancel()
		close(state.done)
	}()

	return nil
}

// Submit enqueues a task and immediately returns the future its result will
// arrive on. With an unbounded queue (the default) Submit never blocks;
// with WithQueueSize it blocks while the queue is full.
//
// Submit fails with ErrNotStarted before Start and with ErrShutdown once
// Shutdown has begun.
func (p *Pool[T, R]) Submit(task T) (*future.Future[R], error) {
	p.mu.RLock()
	state := p.state
	p.mu.RUnlock()

	if state == nil || !state.started.Load() {
		return nil, ErrNotStarted
	}
	if state.shutdown.Load() {
		return nil, ErrShutdown
	}

	st := &submittedTask[T, R]{
		task: task,
		id:   state.seq.Add(1),
		fut:  future.New[R](),
	}

	if err := state.tasks.Put(state.ctx, st); err != nil {
		if errors.Is(err, queue.ErrClosed) {
			return nil, ErrShutdown
		}
		return nil, err
	}
	return st.fut, nil
}

// Drain blocks until every task submitted so far has been fully processed
// and its future resolved. Unlike Shutdown it leaves the pool running, so
// callers can drain between batches. Cancellation of ctx is the only early
// exit.
func (p *Pool[T, R]) Drain(ctx context.Context) error {
	p.mu.RLock()
	state := p.state
	p.mu.RUnlock()

	if state == nil || !state.started.Load() {
		return ErrNotStarted
	}
	return state.tasks.Drain(ctx)
}

// Shutdown stops accepting submissions, lets all queued and in-flight tasks
// run to completion, and returns once every worker has exited. A timeout of
// 0 waits forever; otherwise ErrShutdownTimeout is returned when the
// deadline passes with workers still draining.
//
// Common pattern:
//
//	p.Start(ctx, processFn)
//	defer p.Shutdown(10 * time.Second)
func (p *Pool[T, R]) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	state := p.state
	if state == nil || !state.started.Load() {
		p.mu.Unlock()
		return ErrNotStarted
	}
	if !state.shutdown.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return ErrShutdown
	}
	p.mu.Unlock()

	// Closing the queue rejects new Puts; workers drain the remainder and
	// exit when it runs dry.
	state.tasks.Close()

	return waitUntil(state.done, timeout)
}
