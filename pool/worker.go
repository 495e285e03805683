package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/utkarsh5026/synckit/queue"
)

// worker runs the pull-execute-resolve-acknowledge loop of one pool worker.
// It exits cleanly when the task queue is closed and drained, or with the
// context's error if the pool's context is cancelled.
func (p *Pool[T, R]) worker(ctx context.Context, state *poolState[T, R], processFn ProcessFunc[T, R]) error {
	for {
		st, err := state.tasks.Get(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return nil
			}
			return err
		}

		p.runTask(ctx, st, processFn)

		// Acknowledge only after the future is resolved, so Drain
		// returning means every result is actually observable.
		state.tasks.Done()
	}
}

// runTask executes one task and publishes its outcome into the task's
// future. Task failures and panics stay local to this task: the future
// carries them, the worker survives.
func (p *Pool[T, R]) runTask(ctx context.Context, st *submittedTask[T, R], processFn ProcessFunc[T, R]) {
	if p.config.rateLimiter != nil {
		if err := p.config.rateLimiter.Wait(ctx); err != nil {
			p.finish(st, *new(R), err, 0)
			return
		}
	}

	start := time.Now()
	result, err := runWithRecovery(ctx, st.task, processFn)
	p.finish(st, result, err, time.Since(start))
}

// finish resolves the future, records statistics, and fires the task-end
// hook. The resolve result is ignored: the worker is the only writer, so a
// second resolve cannot happen here.
func (p *Pool[T, R]) finish(st *submittedTask[T, R], result R, err error, elapsed time.Duration) {
	if err != nil {
		if p.config.tracker != nil {
			p.config.tracker.RecordFailure()
		}
		_ = st.fut.Fail(err)
	} else {
		if p.config.tracker != nil {
			p.config.tracker.RecordSuccess(elapsed)
		}
		_ = st.fut.Complete(result)
	}

	if p.config.onTaskEnd != nil {
		p.config.onTaskEnd(st.task, result, err)
	}
}

// runWithRecovery executes a task with panic recovery. A panicking task is
// converted to an error with its stack trace so the worker goroutine
// survives and the failure lands in the task's own future.
func runWithRecovery[T, R any](ctx context.Context, task T, processFn ProcessFunc[T, R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("task panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return processFn(ctx, task)
}
