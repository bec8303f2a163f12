package flight

import "context"

// latch is a one-shot broadcast: open is called exactly once, after which
// every pending and future wait returns immediately.
type latch chan struct{}

func newLatch() latch { return make(latch) }

func (l latch) open() { close(l) }

// Block waits for the latch with no cancellation. Blocking-thread adapter.
func (l latch) Block() { <-l }

// Await waits for the latch or context cancellation. Cooperative adapter.
func (l latch) Await(ctx context.Context) error {
	select {
	case <-l:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
