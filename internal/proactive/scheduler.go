package proactive

import (
	"sync"
	"time"
)

// Scheduler drives refresh attempts ahead of expiry on a self-renewing timer.
type Scheduler struct {
	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	next func() time.Duration
	fire func()
}

// New creates a stopped scheduler. next computes the delay until the next
// tick from whatever record is current; fire performs one refresh attempt and
// must swallow its own errors.
func New(next func() time.Duration, fire func()) *Scheduler {
	return &Scheduler{next: next, fire: fire}
}

// Start arms the first timer. Calling Start on a closed scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.timer != nil {
		return
	}
	s.arm()
}

// arm schedules the next tick. Caller holds s.mu.
func (s *Scheduler) arm() {
	d := s.next()
	if d < 0 {
		d = 0
	}
	s.timer = time.AfterFunc(d, s.tick)
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Outside the lock: Close may run concurrently with a refresh attempt,
	// including from a refresh callback, without deadlocking.
	s.fire()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.arm()
}

// Close cancels the pending timer. Idempotent; a tick that already fired
// becomes a no-op.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}
