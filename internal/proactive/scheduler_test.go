package proactive

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerReschedulesAfterEveryTick(t *testing.T) {
	var fires atomic.Int64
	done := make(chan struct{})

	s := New(
		func() time.Duration { return time.Millisecond },
		func() {
			if fires.Add(1) == 3 {
				close(done)
			}
		},
	)
	s.Start()
	defer s.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected at least 3 ticks, got %d", fires.Load())
	}
}

func TestSchedulerKeepsFiringAfterFailedTick(t *testing.T) {
	// fire swallows errors by contract; the scheduler only sees that the tick
	// returned, and must re-arm regardless.
	var fires atomic.Int64
	done := make(chan struct{})

	s := New(
		func() time.Duration { return time.Millisecond },
		func() {
			// Simulates a refresher failure: no record change, no signal.
			if fires.Add(1) == 2 {
				close(done)
			}
		},
	)
	s.Start()
	defer s.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler stopped after a failed tick")
	}
}

func TestSchedulerDelayRecomputedFromCurrentRecord(t *testing.T) {
	delays := make(chan time.Duration, 4)
	delay := atomic.Int64{}
	delay.Store(int64(time.Millisecond))

	s := New(
		func() time.Duration {
			d := time.Duration(delay.Load())
			select {
			case delays <- d:
			default:
			}
			return d
		},
		func() {
			// A successful refresh would install a longer-lived record.
			delay.Store(int64(2 * time.Millisecond))
		},
	)
	s.Start()
	defer s.Close()

	first := <-delays
	second := <-delays
	if first != time.Millisecond {
		t.Fatalf("expected initial delay 1ms, got %v", first)
	}
	if second != 2*time.Millisecond {
		t.Fatalf("expected recomputed delay 2ms, got %v", second)
	}
}

func TestSchedulerCloseIdempotent(t *testing.T) {
	s := New(
		func() time.Duration { return time.Hour },
		func() { t.Error("timer must not fire") },
	)
	s.Start()

	s.Close()
	s.Close()

	// A tick racing Close is a no-op.
	s.tick()
}

func TestSchedulerCloseFromFireDoesNotDeadlock(t *testing.T) {
	var s *Scheduler
	closed := make(chan struct{})

	s = New(
		func() time.Duration { return time.Millisecond },
		func() {
			s.Close()
			close(closed)
		},
	)
	s.Start()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close from inside fire deadlocked")
	}
}

func TestSchedulerNegativeDelayFiresImmediately(t *testing.T) {
	fired := make(chan struct{})
	var once atomic.Bool

	s := New(
		func() time.Duration { return -time.Minute },
		func() {
			if once.CompareAndSwap(false, true) {
				close(fired)
			}
		},
	)
	s.Start()
	defer s.Close()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("expected an immediate tick for an already-expired record")
	}
}
