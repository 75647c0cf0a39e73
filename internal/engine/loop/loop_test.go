package loop

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	deltas []time.Duration
}

func (r *recorder) frame(dt time.Duration) error {
	r.deltas = append(r.deltas, dt)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLoopDeltas(t *testing.T) {
	q := NewQueue()
	rec := &recorder{}
	l := New(q, rec.frame, WithClock(fixedClock(t0))).Start()
	defer l.Stop()

	stamps := []time.Duration{16 * time.Millisecond, 33 * time.Millisecond, 33 * time.Millisecond, 50 * time.Millisecond}
	for _, s := range stamps {
		if n := q.Fire(t0.Add(s)); n != 1 {
			t.Fatalf("expected 1 pending frame, fired %d", n)
		}
	}

	want := []time.Duration{16 * time.Millisecond, 17 * time.Millisecond, 0, 17 * time.Millisecond}
	if len(rec.deltas) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(rec.deltas))
	}
	for i := range want {
		if rec.deltas[i] != want[i] {
			t.Errorf("frame %d: dt = %v, want %v", i, rec.deltas[i], want[i])
		}
	}
}

func TestLoopNeverNegative(t *testing.T) {
	q := NewQueue()
	rec := &recorder{}
	New(q, rec.frame, WithClock(fixedClock(t0))).Start()

	q.Fire(t0.Add(-time.Second))
	q.Fire(t0.Add(10 * time.Millisecond))

	if rec.deltas[0] != 0 {
		t.Errorf("expected clock going backwards to give dt 0, got %v", rec.deltas[0])
	}
	if rec.deltas[1] != 10*time.Millisecond {
		t.Errorf("expected dt measured from the later stamp, got %v", rec.deltas[1])
	}
}

func TestLoopStop(t *testing.T) {
	q := NewQueue()
	rec := &recorder{}
	l := New(q, rec.frame, WithClock(fixedClock(t0))).Start()

	q.Fire(t0.Add(time.Millisecond))
	l.Stop()
	l.Stop()

	if l.Running() {
		t.Error("loop still running after Stop")
	}

	// The tick queued before Stop still fires but must not render.
	q.Fire(t0.Add(2 * time.Millisecond))
	q.Fire(t0.Add(3 * time.Millisecond))

	if len(rec.deltas) != 1 {
		t.Errorf("expected 1 frame, got %d", len(rec.deltas))
	}
	if q.Pending() != 0 {
		t.Errorf("stopped loop left %d requests queued", q.Pending())
	}
}

func TestLoopStopFromFrame(t *testing.T) {
	q := NewQueue()
	var l *Loop
	frames := 0
	l = New(q, func(time.Duration) error {
		frames++
		l.Stop()
		return nil
	}).Start()

	q.Fire(time.Now())
	q.Fire(time.Now())

	if frames != 1 {
		t.Errorf("expected 1 frame, got %d", frames)
	}
}

func TestLoopRestartDropsStaleTick(t *testing.T) {
	q := NewQueue()
	rec := &recorder{}
	l := New(q, rec.frame, WithClock(fixedClock(t0)))

	l.Start()
	l.Stop()
	l.Start()
	defer l.Stop()

	if q.Pending() != 2 {
		t.Fatalf("expected stale and fresh requests queued, got %d", q.Pending())
	}
	q.Fire(t0.Add(time.Millisecond))

	if len(rec.deltas) != 1 {
		t.Errorf("expected exactly 1 frame after restart, got %d", len(rec.deltas))
	}
	if q.Pending() != 1 {
		t.Errorf("expected one follow-up request, got %d", q.Pending())
	}
}

func TestLoopStartTwice(t *testing.T) {
	q := NewQueue()
	l := New(q, func(time.Duration) error { return nil })

	if l.Start() != l {
		t.Error("Start should return the loop as its handle")
	}
	l.Start()
	defer l.Stop()

	if q.Pending() != 1 {
		t.Errorf("second Start should not schedule again, %d pending", q.Pending())
	}
}

func TestLoopFrameError(t *testing.T) {
	q := NewQueue()
	boom := errors.New("draw failed")
	frames := 0
	l := New(q, func(time.Duration) error {
		frames++
		return boom
	}).Start()

	q.Fire(time.Now())
	q.Fire(time.Now())

	if frames != 1 {
		t.Errorf("expected loop to stop after the failing frame, got %d frames", frames)
	}
	if !errors.Is(l.Err(), boom) {
		t.Errorf("expected Err() = %v, got %v", boom, l.Err())
	}
	if l.Running() {
		t.Error("loop still running after frame error")
	}

	// Restarting clears the error.
	l.Start()
	if l.Err() != nil {
		t.Errorf("expected Err() cleared by Start, got %v", l.Err())
	}
	l.Stop()
}

func TestLoopPanicPropagates(t *testing.T) {
	q := NewQueue()
	New(q, func(time.Duration) error {
		panic("frame exploded")
	}).Start()

	defer func() {
		if r := recover(); r != "frame exploded" {
			t.Errorf("expected the frame panic to reach the host, got %v", r)
		}
	}()
	q.Fire(time.Now())
	t.Error("Fire returned normally")
}

func TestQueueDefersNestedRequests(t *testing.T) {
	q := NewQueue()
	ran := 0
	q.RequestFrame(func(time.Time) {
		ran++
		q.RequestFrame(func(time.Time) { ran++ })
	})

	if n := q.Fire(t0); n != 1 || ran != 1 {
		t.Errorf("first Fire ran %d callbacks (counted %d), want 1", n, ran)
	}
	if n := q.Fire(t0); n != 1 || ran != 2 {
		t.Errorf("second Fire ran %d callbacks (counted %d), want 1", n, ran)
	}
	if n := q.Fire(t0); n != 0 {
		t.Errorf("empty queue fired %d callbacks", n)
	}
}
