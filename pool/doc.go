// Package pool provides a small, generic worker pool for running many
// independent blocking tasks under bounded parallelism.
//
// The primary type is Pool[T, R], a fixed set of workers which process
// tasks of type T and produce results of type R. Submit hands a task to the
// pool and immediately returns a *future.Future[R] the caller can wait on.
// Internally the pool feeds its workers from a drainable queue, so callers
// can also block until every submitted task has been fully processed.
//
// # Basic Usage
//
//	p := pool.New[int, int](pool.WithWorkerCount(4))
//	err := p.Start(ctx, func(ctx context.Context, n int) (int, error) {
//	    return n * n, nil
//	})
//	defer p.Shutdown(5 * time.Second)
//
//	f, _ := p.Submit(7)
//	v, err := f.Get()
//
// # Retrieval Disciplines
//
// Two ways to consume a batch of submitted futures:
//
//   - Ordered: Collect (or the Map convenience) returns results in
//     submission order, each wait blocking only until that position
//     resolves. Completion order does not matter.
//   - As completed: AsCompleted surfaces each future on a channel the
//     moment it resolves, exactly once per future, in whatever order the
//     workers actually finish.
//
// # Failure Semantics
//
// A task that returns an error or panics fails only its own future; the
// worker that ran it recovers and moves on to the next task. The pool never
// retries a task: wrap the process function if retry behavior is wanted.
//
// # Shutdown
//
// Shutdown stops intake, lets queued and in-flight tasks run to completion,
// and returns once every worker has exited. Submissions racing with
// shutdown fail with ErrShutdown, which callers can match with errors.Is.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: GOMAXPROCS)
//   - WithQueueSize(n): bound the internal task queue (default: unbounded)
//   - WithRateLimit(perSec, burst): throttle task starts across all workers
//   - WithStats(t): record per-task success/failure into a stats.Tracker
//   - WithOnTaskEnd(fn): observe every task's outcome
//
// The package is designed to be small and idiomatic for Go 1.18+ (generics).
package pool
