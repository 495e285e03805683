// Package future provides a single-assignment result container for
// asynchronous task completion.
//
// A Future[R] is shared between exactly one writer (the goroutine that runs
// the task) and any number of readers. The writer resolves it once with
// Complete or Fail; readers block on Get or poll with TryGet. Once a future
// reaches a terminal state its outcome never changes.
package future

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyResolved is returned by Complete or Fail when the future has
// already reached a terminal state. A double resolve is a bug in the calling
// code; the stored outcome is left untouched.
var ErrAlreadyResolved = errors.New("future already resolved")

// State describes the lifecycle position of a Future.
type State int32

const (
	// Pending means no outcome has been published yet.
	Pending State = iota
	// Completed means the future holds a value.
	Completed
	// Failed means the future holds an error.
	Failed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future holds the eventual outcome of a single task: either a value of type
// R or an error, never both. The zero value is not usable; create futures
// with New.
type Future[R any] struct {
	mu    sync.Mutex
	state State
	value R
	err   error

	// done is closed exactly once, when the future transitions out of
	// Pending. Readers block on it without holding mu.
	done chan struct{}
}

// New creates an unresolved future.
func New[R any]() *Future[R] {
	return &Future[R]{
		done: make(chan struct{}),
	}
}

// Complete publishes a successful outcome and wakes every blocked reader.
// It may be called at most once per future, across Complete and Fail
// combined; later calls return ErrAlreadyResolved without touching the
// stored outcome.
func (f *Future[R]) Complete(value R) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Pending {
		return ErrAlreadyResolved
	}

	f.value = value
	f.state = Completed
	close(f.done)
	return nil
}

// Fail publishes a failed outcome and wakes every blocked reader. The same
// single-resolve contract as Complete applies.
func (f *Future[R]) Fail(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Pending {
		return ErrAlreadyResolved
	}

	f.err = err
	f.state = Failed
	close(f.done)
	return nil
}

// Get blocks until the future is resolved, then returns the stored outcome.
// It is safe to call Get any number of times, concurrently or sequentially;
// every call observes the identical value and error.
//
// The returned error is the task's own failure (from Fail), never a
// transport-level artifact of waiting.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.outcome()
}

// GetWithContext blocks like Get but also returns early with ctx.Err() if
// the context is cancelled first. Early return does not consume or alter the
// future; a later Get still works.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.outcome()
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// GetWithTimeout blocks like Get for at most the given duration. A timeout
// of 0 or less waits forever, preserving the default blocking contract.
func (f *Future[R]) GetWithTimeout(timeout time.Duration) (R, error) {
	if timeout <= 0 {
		return f.Get()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.GetWithContext(ctx)
}

// TryGet returns the outcome without blocking. The boolean reports whether
// the future was resolved; when false, the value and error are zero.
func (f *Future[R]) TryGet() (R, error, bool) {
	select {
	case <-f.done:
		v, err := f.outcome()
		return v, err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// State returns the current state without blocking.
func (f *Future[R]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done returns a channel that is closed when the future resolves. It lets
// callers select across many futures at once.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// outcome reads the terminal value; callers must have observed done closed,
// which orders this read after the writer's publish.
func (f *Future[R]) outcome() (R, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}
