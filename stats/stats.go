// Package stats provides a mutex-guarded request statistics tracker shared
// by concurrent workers.
package stats

import (
	"sync"
	"time"
)

// Tracker accumulates success/failure counts and observed durations across
// any number of goroutines. The zero value is ready to use. All fields are
// mutated and read under a single mutex, so a Snapshot never mixes values
// from two different recordings.
type Tracker struct {
	mu            sync.Mutex
	successful    int64
	failed        int64
	totalDuration time.Duration
}

// Snapshot is a mutually consistent view of a Tracker at one instant.
type Snapshot struct {
	TotalRequests   int64
	Successful      int64
	Failed          int64
	AvgResponseTime time.Duration
}

// RecordSuccess counts one successful request and adds its observed
// duration to the running total.
func (t *Tracker) RecordSuccess(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.successful++
	t.totalDuration += d
}

// RecordFailure counts one failed request.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failed++
}

// Snapshot returns all counters read atomically under the tracker's mutex.
// AvgResponseTime is the mean duration of successful requests, or 0 when
// none have succeeded yet (never a division fault).
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var avg time.Duration
	if t.successful > 0 {
		avg = t.totalDuration / time.Duration(t.successful)
	}

	return Snapshot{
		TotalRequests:   t.successful + t.failed,
		Successful:      t.successful,
		Failed:          t.failed,
		AvgResponseTime: avg,
	}
}
