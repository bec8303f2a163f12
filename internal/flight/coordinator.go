package flight

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// RefreshFunc performs one concrete refresh attempt. It runs outside the
// coordinator lock. The cycle ID identifies the flight in audit trails.
type RefreshFunc[T any] func(ctx context.Context, cycleID string) (T, error)

// cycle is the transient state of one in-flight refresh. record and err are
// written under the coordinator lock before done opens and are immutable
// afterwards.
type cycle[T any] struct {
	id     string
	done   latch
	record T
	err    error
}

// Coordinator serializes concurrent refresh attempts into one in-flight call
// per cycle and fans the outcome out to every caller attached to that cycle.
type Coordinator[T any] struct {
	mu       sync.Mutex
	current  atomic.Pointer[T]
	stale    func(T) bool
	run      RefreshFunc[T]
	inflight *cycle[T]
}

// NewCoordinator creates a coordinator holding initial as the current record.
// stale is re-evaluated under the lock on every entry (double-checked against
// the unlocked fast path in the facade); run is the injected refresh attempt.
func NewCoordinator[T any](initial T, stale func(T) bool, run RefreshFunc[T]) *Coordinator[T] {
	c := &Coordinator[T]{
		stale: stale,
		run:   run,
	}
	c.current.Store(&initial)
	return c
}

// Current returns a snapshot of the current record without taking the lock.
func (c *Coordinator[T]) Current() T {
	return *c.current.Load()
}

// Refresh returns a record that was not stale at the instant it was checked or
// installed, refreshing at most once concurrently. led reports whether this
// caller executed the refresh function itself; callers served from another
// flight, or from a record installed between their unlocked check and lock
// acquisition, report led == false.
//
// A waiter whose delivered record is itself already stale re-enters and may
// lead a new cycle; a waiter of a failed cycle returns that cycle's error.
func (c *Coordinator[T]) Refresh(ctx context.Context) (record T, led bool, err error) {
	return c.refresh(ctx, func(l latch) error { return l.Await(ctx) })
}

// RefreshBlocking is Refresh for the blocking-thread model: the caller waits
// on the flight latch without cancellation.
func (c *Coordinator[T]) RefreshBlocking() (record T, led bool, err error) {
	return c.refresh(context.Background(), func(l latch) error {
		l.Block()
		return nil
	})
}

// refresh is the single-flight algorithm. Both public entry points share it;
// only the latch wait adapter differs.
func (c *Coordinator[T]) refresh(ctx context.Context, wait func(latch) error) (record T, led bool, err error) {
	for {
		c.mu.Lock()

		cur := *c.current.Load()
		if !c.stale(cur) {
			c.mu.Unlock()
			return cur, false, nil
		}

		if fl := c.inflight; fl != nil {
			c.mu.Unlock()
			if err := wait(fl.done); err != nil {
				var zero T
				return zero, false, err
			}
			if fl.err != nil {
				var zero T
				return zero, false, fl.err
			}
			if !c.stale(fl.record) {
				return fl.record, false, nil
			}
			// The flight produced an already-stale record; drive a new cycle.
			continue
		}

		fl := &cycle[T]{id: uuid.NewString(), done: newLatch()}
		c.inflight = fl
		c.mu.Unlock()

		record, err = c.run(ctx, fl.id)

		c.mu.Lock()
		fl.record, fl.err = record, err
		if err == nil {
			rec := record
			c.current.Store(&rec)
		}
		c.inflight = nil
		fl.done.open()
		c.mu.Unlock()

		return record, true, err
	}
}
