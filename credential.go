package tokencache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/tokencache/internal/flight"
	"github.com/MrEthical07/tokencache/internal/proactive"
)

// Credential defines a public type used by tokencache APIs.
//
// Credential instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Credential struct {
	config    Config
	window    time.Duration
	refresher Refresher
	coord     *flight.Coordinator[Record]
	scheduler *proactive.Scheduler
	metrics   *Metrics
	audit     *auditDispatcher
	now       func() time.Time
	closed    atomic.Bool
}

// Token returns the cached record, refreshing it first when it falls inside
// the active expiry window. Concurrent callers hitting an expiring record
// collapse into one refresher invocation; a caller whose context is cancelled
// while waiting detaches with ctx.Err() and leaves the flight undisturbed.
//
// After Close, Token fails with [ErrCredentialClosed] regardless of refresh
// mode.
func (c *Credential) Token(ctx context.Context) (Record, error) {
	if c.closed.Load() {
		return Record{}, ErrCredentialClosed
	}

	rec := c.coord.Current()
	if !expiringSoon(rec, c.now(), c.window) {
		c.metrics.Inc(MetricFastPathHit)
		return rec, nil
	}

	if c.refresher == nil {
		return c.withoutRefresher(rec)
	}

	rec, led, err := c.coord.Refresh(ctx)
	return c.slowPathResult(rec, led, err)
}

// TokenBlocking is Token for the blocking-thread model: a caller attached to
// an in-flight refresh waits for its outcome without cancellation.
func (c *Credential) TokenBlocking() (Record, error) {
	if c.closed.Load() {
		return Record{}, ErrCredentialClosed
	}

	rec := c.coord.Current()
	if !expiringSoon(rec, c.now(), c.window) {
		c.metrics.Inc(MetricFastPathHit)
		return rec, nil
	}

	if c.refresher == nil {
		return c.withoutRefresher(rec)
	}

	rec, led, err := c.coord.RefreshBlocking()
	return c.slowPathResult(rec, led, err)
}

// withoutRefresher serves the expiring record as long as it has not actually
// expired; there is nothing to single-flight when no refresher exists.
func (c *Credential) withoutRefresher(rec Record) (Record, error) {
	if c.now().Before(rec.ExpiresOn) {
		return rec, nil
	}
	return Record{}, ErrTokenExpired
}

func (c *Credential) slowPathResult(rec Record, led bool, err error) (Record, error) {
	if err != nil {
		return Record{}, err
	}
	if !led {
		c.metrics.Inc(MetricRefreshCollapsed)
	}
	return rec, nil
}

// stale is the coordinator's double-checked predicate: re-evaluated under the
// coordinator lock so callers racing a completed refresh return the fresh
// record instead of driving a redundant cycle.
func (c *Credential) stale(rec Record) bool {
	return expiringSoon(rec, c.now(), c.window)
}

// runRefresh is the single concrete refresh attempt per cycle. It runs outside
// the coordinator lock; waiters block only on the published outcome, never on
// the network call itself.
func (c *Credential) runRefresh(ctx context.Context, cycleID string) (Record, error) {
	c.emit(ctx, AuditEvent{
		Timestamp: c.now(),
		EventType: EventRefreshStarted,
		CycleID:   cycleID,
		Success:   true,
	})

	start := time.Now()
	rec, err := c.refresher(ctx)
	c.metrics.Observe(MetricRefreshLatency, time.Since(start))

	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.emit(ctx, AuditEvent{
			Timestamp: c.now(),
			EventType: EventRefreshFailed,
			CycleID:   cycleID,
			Error:     err.Error(),
		})
		return Record{}, &RefreshError{Err: err}
	}

	c.metrics.Inc(MetricRefreshSuccess)
	c.emit(ctx, AuditEvent{
		Timestamp: c.now(),
		EventType: EventRefreshSucceeded,
		CycleID:   cycleID,
		ExpiresOn: rec.ExpiresOn,
		Success:   true,
	})
	return rec, nil
}

// nextDelay feeds the proactive scheduler from whatever record is current.
func (c *Credential) nextDelay() time.Duration {
	return nextProactiveDelay(c.coord.Current(), c.now(), c.config.Refresh.Window)
}

// proactiveFire is one background refresh attempt. Failures are counted and
// audited but never surface to Token callers.
func (c *Credential) proactiveFire() {
	c.metrics.Inc(MetricProactiveFire)

	_, _, err := c.coord.Refresh(context.Background())
	if err != nil {
		c.metrics.Inc(MetricProactiveFailure)
	}

	event := AuditEvent{
		Timestamp: c.now(),
		EventType: EventProactiveFire,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	c.emit(context.Background(), event)
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credential) Close() {
	if c == nil {
		return
	}
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	if c.scheduler != nil {
		c.scheduler.Close()
	}
	c.emit(context.Background(), AuditEvent{
		Timestamp: c.now(),
		EventType: EventCredentialClosed,
		Success:   true,
	})
	c.audit.Close()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credential) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Credential) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Credential) emit(ctx context.Context, event AuditEvent) {
	c.audit.Emit(ctx, event)
}
