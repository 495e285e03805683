package pool

import (
	"fmt"
	"reflect"
	"runtime"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/synckit/stats"
)

// Option is a functional option for configuring the worker pool.
type Option func(*poolConfig)

// poolConfig collects option values before they are bound to the pool's
// type parameters. Hooks are stored untyped with a record of the types they
// were declared for; createConfig checks those records against the pool's
// actual type parameters and wraps the hooks into typed functions.
type poolConfig struct {
	workerCount int
	queueSize   int
	rateLimiter *rate.Limiter
	tracker     *stats.Tracker

	onTaskEnd           func(task, result any, err error)
	onTaskEndTaskType   reflect.Type
	onTaskEndResultType reflect.Type
}

// config is the typed configuration a Pool[T, R] actually runs with.
type config[T, R any] struct {
	workerCount int
	queueSize   int
	rateLimiter *rate.Limiter
	tracker     *stats.Tracker
	onTaskEnd   func(task T, result R, err error)
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) Option {
	return func(cfg *poolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithQueueSize bounds the internal task queue. When the queue is full,
// Submit blocks until a worker makes room. If not specified the queue is
// unbounded and Submit never blocks.
func WithQueueSize(size int) Option {
	return func(cfg *poolConfig) {
		if size > 0 {
			cfg.queueSize = size
		}
	}
}

// WithRateLimit throttles how fast workers may start tasks, shared across
// the whole pool. tasksPerSecond is the sustained rate, burst the number of
// task starts allowed to bunch up. Useful when the tasks hit an external
// service that must not be overwhelmed. If not specified, no rate limiting
// is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // allow 10 task starts/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithStats records every task's outcome into t: a success adds the task's
// observed execution time, a failure bumps the failure count. The tracker
// may be shared with other pools or with caller code.
func WithStats(t *stats.Tracker) Option {
	return func(cfg *poolConfig) {
		cfg.tracker = t
	}
}

// WithOnTaskEnd installs a hook invoked after each task finishes, with the
// task, its result, and its error (nil on success). The hook runs on the
// worker goroutine, so keep it fast.
//
// The hook's type parameters must match the pool's; a mismatch panics when
// the pool is created.
func WithOnTaskEnd[T any, R any](fn func(task T, result R, err error)) Option {
	return func(cfg *poolConfig) {
		cfg.onTaskEnd = func(task, result any, err error) {
			fn(task.(T), result.(R), err)
		}
		// reflect.TypeFor keeps interface types distinct, where a %T of
		// the zero value would collapse them all to <nil>.
		cfg.onTaskEndTaskType = reflect.TypeFor[T]()
		cfg.onTaskEndResultType = reflect.TypeFor[R]()
	}
}

// createConfig applies the options over the defaults and binds the result
// to the pool's type parameters. It panics if a hook was declared for
// different types than the pool processes; that is a wiring bug best caught
// at construction.
func createConfig[T, R any](opts ...Option) *config[T, R] {
	cfg := &poolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		queueSize:   0, // unbounded
	}

	for _, opt := range opts {
		opt(cfg)
	}

	expectedTaskType := reflect.TypeFor[T]()
	expectedResultType := reflect.TypeFor[R]()

	var onTaskEnd func(T, R, error)
	if cfg.onTaskEnd != nil {
		if cfg.onTaskEndTaskType != expectedTaskType {
			panic(fmt.Sprintf("WithOnTaskEnd hook expects task type %s, but pool processes type %s",
				cfg.onTaskEndTaskType, expectedTaskType))
		}
		if cfg.onTaskEndResultType != expectedResultType {
			panic(fmt.Sprintf("WithOnTaskEnd hook expects result type %s, but pool produces type %s",
				cfg.onTaskEndResultType, expectedResultType))
		}
		hook := cfg.onTaskEnd
		onTaskEnd = func(task T, result R, err error) {
			hook(task, result, err)
		}
	}

	return &config[T, R]{
		workerCount: cfg.workerCount,
		queueSize:   cfg.queueSize,
		rateLimiter: cfg.rateLimiter,
		tracker:     cfg.tracker,
		onTaskEnd:   onTaskEnd,
	}
}
