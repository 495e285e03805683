// Package queue provides a concurrent FIFO work queue whose producers can
// block until every enqueued item has been fully processed.
//
// Beyond the usual Put/Get pair, the queue tracks an unfinished-work count:
// Put raises it, and a consumer lowers it by calling Done after finishing
// the item it retrieved. Drain blocks a caller until the count reaches
// zero, which makes "hand work to a pool of consumers, then wait for all of
// it to actually finish" a single call instead of bespoke bookkeeping.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Put after Close, and by Get once the queue is
// closed and the remaining items have been drained.
var ErrClosed = errors.New("queue is closed")

// Queue is a FIFO shared by any number of producers and consumers. Create
// one with New; the zero value is not usable.
//
// The pending items, the unfinished count, and the closed flag are all
// guarded by one mutex, so no operation ever observes a half-updated pair.
type Queue[T any] struct {
	mu    sync.Mutex
	ready *sync.Cond // an item is available, or the queue closed
	space *sync.Cond // a bounded queue has room, or the queue closed
	idle  *sync.Cond // unfinished reached zero

	items      []T
	capacity   int // 0 means unbounded
	unfinished int
	closed     bool
}

// New creates a queue. A capacity of 0 means unbounded; a positive capacity
// bounds the pending list, making Put block while the queue is full.
func New[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}

	q := &Queue[T]{capacity: capacity}
	q.ready = sync.NewCond(&q.mu)
	q.space = sync.NewCond(&q.mu)
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Put appends item to the tail and raises the unfinished count by one. It
// is safe for any number of concurrent producers. On a bounded queue Put
// blocks while the queue is full, returning early only if ctx is cancelled.
// Put returns ErrClosed once Close has been called.
func (q *Queue[T]) Put(ctx context.Context, item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && len(q.items) >= q.capacity && !q.closed {
		if err := q.waitCond(ctx, q.space); err != nil {
			return err
		}
	}

	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, item)
	q.unfinished++
	q.ready.Signal()
	return nil
}

// Get removes and returns the head item, blocking while the queue is empty.
// Items come out in the order they went in, across all producers. It is
// safe for any number of concurrent consumers. After Close, Get keeps
// serving the remaining items and returns ErrClosed once they are gone.
// A cancelled ctx wins over queued items, so consumer loops stop promptly.
//
// The caller owns the returned item and must call Done exactly once after
// finishing work on it.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		if err := q.waitCond(ctx, q.ready); err != nil {
			return zero, err
		}
	}

	if len(q.items) == 0 {
		return zero, ErrClosed
	}

	item := q.items[0]
	q.items[0] = zero // drop the reference so the backing array can free it
	q.items = q.items[1:]
	q.space.Signal()
	return item, nil
}

// Done acknowledges one item previously retrieved with Get, lowering the
// unfinished count. When the count reaches zero every goroutine blocked in
// Drain is released. Calling Done more times than items were retrieved is a
// bug in the calling code and panics.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unfinished == 0 {
		panic("queue: Done called more times than items retrieved")
	}
	q.unfinished--
	if q.unfinished == 0 {
		q.idle.Broadcast()
	}
}

// Drain blocks until every item ever put has been acknowledged with Done.
// It may be called at any time, including while the queue is transiently
// empty but work is still in flight, and it re-blocks correctly when new
// items arrive before it observes the zero count. Cancellation of ctx is
// the only early exit.
func (q *Queue[T]) Drain(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.unfinished > 0 {
		if err := q.waitCond(ctx, q.idle); err != nil {
			return err
		}
	}
	return nil
}

// Close stops intake: subsequent Puts fail with ErrClosed, while consumers
// drain whatever is still pending. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.ready.Broadcast()
	q.space.Broadcast()
}

// Len returns the number of pending items. Best-effort: the value can be
// stale as soon as it is returned.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Unfinished returns the number of items enqueued but not yet acknowledged
// with Done. Best-effort, like Len.
func (q *Queue[T]) Unfinished() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unfinished
}

// waitCond waits on c with q.mu held, waking early if ctx is cancelled.
// The caller must re-check its predicate after waitCond returns nil; a
// wakeup is not a guarantee.
func (q *Queue[T]) waitCond(ctx context.Context, c *sync.Cond) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		// Take the lock so the broadcast cannot fire between the
		// waiter's predicate check and its Wait.
		q.mu.Lock()
		defer q.mu.Unlock()
		c.Broadcast()
	})
	defer stop()

	c.Wait()
	if err := ctx.Err(); err != nil {
		// This waiter may have absorbed a Signal meant for a peer on
		// its way out; hand it on so no wakeup is lost.
		c.Signal()
		return err
	}
	return nil
}
