// Package gate provides a counting admission primitive that bounds how many
// callers may concurrently hold a scarce shared resource, such as a
// connection pool or a download slot.
//
// A Gate of capacity C guarantees that at most C callers are between a
// successful Acquire and its matching Release at any instant. Waiters block
// on a channel receive and consume no CPU.
package gate

import (
	"context"
)

// Gate is a fixed-capacity permit counter. Create one with New; the zero
// value is not usable.
type Gate struct {
	// permits holds one token per outstanding holder. Acquire sends,
	// Release receives, so len(permits) is the in-use count.
	permits chan struct{}
}

// New creates a gate admitting at most capacity concurrent holders.
// Capacity is fixed for the gate's lifetime. New panics if capacity is not
// positive.
func New(capacity int) *Gate {
	if capacity <= 0 {
		panic("gate: capacity must be positive")
	}
	return &Gate{
		permits: make(chan struct{}, capacity),
	}
}

// Acquire blocks until a permit is available, then claims it. The only
// early exit is context cancellation, in which case no permit is held and
// ctx.Err() is returned. Pass context.Background() to wait without limit.
//
// Admission order among concurrent waiters is not strict FIFO, but no
// waiter starves while holders keep releasing.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.permits <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire claims a permit without blocking. It reports whether the
// permit was obtained.
func (g *Gate) TryAcquire() bool {
	select {
	case g.permits <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns one permit, unblocking a single waiter if any are queued.
// Calling Release without a matching prior Acquire is a bug in the calling
// code and panics rather than silently raising capacity.
func (g *Gate) Release() {
	select {
	case <-g.permits:
	default:
		panic("gate: Release without matching Acquire")
	}
}

// Do runs fn while holding a permit, releasing it on every exit path
// including a panic inside fn. It returns ctx.Err() if the permit could not
// be acquired, otherwise fn's error.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}

// Capacity returns the fixed permit count the gate was created with.
func (g *Gate) Capacity() int {
	return cap(g.permits)
}

// InUse returns the number of permits currently held. The value is
// best-effort: it can be stale by the time the caller looks at it, so it is
// suitable for display and monitoring, not for synchronization decisions.
func (g *Gate) InUse() int {
	return len(g.permits)
}
