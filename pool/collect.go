package pool

import (
	"context"
	"sync"

	"github.com/utkarsh5026/synckit/future"
)

// Collect waits on futures in the order given and returns their values in
// that same order, regardless of the order the tasks actually finished in.
// Each wait blocks only until that position's future resolves.
//
// On the first failed future Collect stops and returns that task's error
// together with the results gathered up to it. Cancellation of ctx aborts
// the walk the same way.
func Collect[R any](ctx context.Context, futures []*future.Future[R]) ([]R, error) {
	results := make([]R, 0, len(futures))

	for _, f := range futures {
		v, err := f.GetWithContext(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, v)
	}
	return results, nil
}

// AsCompleted surfaces each future on the returned channel the moment it
// resolves: completion order, full coverage, no future delivered twice. The
// channel is closed after the last future has been delivered.
//
// If ctx is cancelled the channel is closed early and undelivered futures
// are abandoned; their outcomes remain retrievable directly.
func AsCompleted[R any](ctx context.Context, futures []*future.Future[R]) <-chan *future.Future[R] {
	out := make(chan *future.Future[R])

	var wg sync.WaitGroup
	for _, f := range futures {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-f.Done():
			case <-ctx.Done():
				return
			}
			select {
			case out <- f:
			case <-ctx.Done():
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Map submits every task in the slice and collects the results in
// submission order: the worker-pool equivalent of applying processFn over
// the slice, with completion order hidden from the caller.
//
// Example:
//
//	p := pool.New[int, int](pool.WithWorkerCount(3))
//	_ = p.Start(ctx, square)
//	results, err := p.Map(ctx, []int{1, 2, 3, 4, 5})
//	// results: [1 4 9 16 25]
func (p *Pool[T, R]) Map(ctx context.Context, tasks []T) ([]R, error) {
	futures := make([]*future.Future[R], 0, len(tasks))
	for _, task := range tasks {
		f, err := p.Submit(task)
		if err != nil {
			return nil, err
		}
		futures = append(futures, f)
	}
	return Collect(ctx, futures)
}
