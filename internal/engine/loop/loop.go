// Package loop drives a per-frame callback from the host's display
// refresh.
package loop

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameFunc renders one frame. dt is the time since the previous frame.
// Returning an error stops the loop.
type FrameFunc func(dt time.Duration) error

// Scheduler arranges for fn to run at the next refresh opportunity.
// Callbacks must run one at a time, in increasing time order.
type Scheduler interface {
	RequestFrame(fn func(now time.Time))
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the clock used to stamp Start. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// Loop repeatedly invokes a FrameFunc through a Scheduler.
// Start and Stop may be called from any goroutine; frames run wherever
// the scheduler runs them.
type Loop struct {
	sched Scheduler
	fn    FrameFunc
	now   func() time.Time

	running atomic.Bool
	// gen invalidates ticks scheduled before the latest Start/Stop.
	gen atomic.Uint64

	mu   sync.Mutex
	last time.Time
	err  error
}

// New creates a stopped loop.
func New(sched Scheduler, fn FrameFunc, opts ...Option) *Loop {
	l := &Loop{
		sched: sched,
		fn:    fn,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins requesting frames. Starting a running loop is a no-op.
// It returns l so callers can keep it as a handle for Stop.
func (l *Loop) Start() *Loop {
	if !l.running.CompareAndSwap(false, true) {
		return l
	}

	l.mu.Lock()
	l.last = l.now()
	l.err = nil
	l.mu.Unlock()

	gen := l.gen.Add(1)
	l.schedule(gen)
	return l
}

// Stop halts further frames. It is idempotent, and a tick the scheduler
// already holds will not run the callback.
func (l *Loop) Stop() {
	if l.running.CompareAndSwap(true, false) {
		l.gen.Add(1)
	}
}

// Running reports whether the loop is started.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Err returns the error that stopped the loop, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loop) schedule(gen uint64) {
	l.sched.RequestFrame(func(now time.Time) {
		l.tick(gen, now)
	})
}

func (l *Loop) tick(gen uint64, now time.Time) {
	if !l.running.Load() || l.gen.Load() != gen {
		return
	}

	l.mu.Lock()
	dt := now.Sub(l.last)
	if dt < 0 {
		// Never hand out negative time; keep the later stamp.
		dt = 0
	} else {
		l.last = now
	}
	l.mu.Unlock()

	if err := l.fn(dt); err != nil {
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
		l.Stop()
		return
	}

	if l.running.Load() && l.gen.Load() == gen {
		l.schedule(gen)
	}
}
