package flight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type rec struct {
	value string
	fresh bool
}

func staleRec(r rec) bool { return !r.fresh }

func TestRefreshSingleFlight(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	coord := NewCoordinator(rec{value: "expired"}, staleRec, func(context.Context, string) (rec, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return rec{value: "fresh", fresh: true}, nil
	})

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan rec, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			r, _, err := coord.Refresh(context.Background())
			if err != nil {
				t.Errorf("unexpected refresh error: %v", err)
				return
			}
			results <- r
		}()
	}

	<-started
	close(release)
	wg.Wait()
	close(results)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", got)
	}
	for r := range results {
		if r.value != "fresh" {
			t.Fatalf("expected every caller to receive the fresh record, got %q", r.value)
		}
	}
}

func TestRefreshSkipsWhenRecordAlreadyFresh(t *testing.T) {
	coord := NewCoordinator(rec{value: "ok", fresh: true}, staleRec, func(context.Context, string) (rec, error) {
		t.Fatal("refresh must not run for a fresh record")
		return rec{}, nil
	})

	r, led, err := coord.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if led {
		t.Fatal("caller must not lead when the record is fresh")
	}
	if r.value != "ok" {
		t.Fatalf("expected current record, got %q", r.value)
	}
}

func TestRefreshFailureFansOutToAllWaiters(t *testing.T) {
	wantErr := errors.New("upstream down")
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	coord := NewCoordinator(rec{value: "expired"}, staleRec, func(context.Context, string) (rec, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return rec{}, wantErr
	})

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, err := coord.Refresh(context.Background())
			errs <- err
		}()
	}

	<-started
	close(release)
	wg.Wait()
	close(errs)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", got)
	}
	for err := range errs {
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected every caller to receive the cycle error, got %v", err)
		}
	}

	// A failed cycle leaves the previous record installed.
	if cur := coord.Current(); cur.value != "expired" {
		t.Fatalf("failed refresh must not discard the previous record, got %q", cur.value)
	}
}

func TestWaiterDrivesNewCycleWhenDeliveredRecordIsStale(t *testing.T) {
	var calls atomic.Int64
	firstStarted := make(chan struct{})
	firstRelease := make(chan struct{})

	coord := NewCoordinator(rec{value: "expired"}, staleRec, func(context.Context, string) (rec, error) {
		switch calls.Add(1) {
		case 1:
			close(firstStarted)
			<-firstRelease
			// Short-lived token: stale the moment it is delivered.
			return rec{value: "short-lived"}, nil
		default:
			return rec{value: "fresh", fresh: true}, nil
		}
	})

	waiterDone := make(chan rec, 1)
	leaderDone := make(chan rec, 1)

	go func() {
		r, _, err := coord.Refresh(context.Background())
		if err != nil {
			t.Errorf("leader failed: %v", err)
		}
		leaderDone <- r
	}()

	<-firstStarted
	go func() {
		r, _, err := coord.Refresh(context.Background())
		if err != nil {
			t.Errorf("waiter failed: %v", err)
		}
		waiterDone <- r
	}()

	// Give the waiter time to attach to the first cycle before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(firstRelease)

	if r := <-leaderDone; r.value != "short-lived" {
		t.Fatalf("leader returns its own cycle result, got %q", r.value)
	}
	if r := <-waiterDone; r.value != "fresh" {
		t.Fatalf("waiter should re-enter and obtain a fresh record, got %q", r.value)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected two refresh calls, got %d", got)
	}
}

func TestWaiterContextCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	coord := NewCoordinator(rec{value: "expired"}, staleRec, func(context.Context, string) (rec, error) {
		close(started)
		<-release
		return rec{value: "fresh", fresh: true}, nil
	})

	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		if _, _, err := coord.Refresh(context.Background()); err != nil {
			t.Errorf("leader failed: %v", err)
		}
	}()

	<-started
	ctx, cancel := context.WithCancel(context.Background())
	waiterErr := make(chan error, 1)
	go func() {
		_, _, err := coord.Refresh(ctx)
		waiterErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-waiterErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The in-flight cycle must complete undisturbed.
	close(release)
	<-leaderDone
	if cur := coord.Current(); cur.value != "fresh" {
		t.Fatalf("cancelled waiter must not disturb the flight, current = %q", cur.value)
	}
}

func TestRefreshBlockingWaitsOutTheFlight(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	coord := NewCoordinator(rec{value: "expired"}, staleRec, func(context.Context, string) (rec, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return rec{value: "fresh", fresh: true}, nil
	})

	go func() {
		<-started
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	const n = 4
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			r, _, err := coord.RefreshBlocking()
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if r.value != "fresh" {
				t.Errorf("expected fresh record, got %q", r.value)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", got)
	}
}
