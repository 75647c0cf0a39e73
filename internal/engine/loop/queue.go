package loop

import (
	"sync"
	"time"
)

// Queue is a Scheduler for hosts that pump frames themselves: the host
// calls Fire once per display refresh (after vsync) and every callback
// requested before that call runs, in request order.
type Queue struct {
	mu      sync.Mutex
	pending []func(now time.Time)
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// RequestFrame queues fn for the next Fire.
func (q *Queue) RequestFrame(fn func(now time.Time)) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Fire runs the callbacks queued so far and returns how many ran.
// Callbacks requested while firing wait for the next Fire.
func (q *Queue) Fire(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
