package tokencache

import "time"

const (
	// onDemandWindow is the buffer before expiry that triggers an on-demand
	// refresh when proactive refresh is disabled. Not configurable.
	onDemandWindow = 2 * time.Minute

	// defaultRefreshWindow is the default proactive window.
	defaultRefreshWindow = 10 * time.Minute
)

// expiringSoon reports whether the record falls inside the refresh window at
// now. The comparison is strict: a record with exactly window left is not yet
// expiring.
func expiringSoon(rec Record, now time.Time, window time.Duration) bool {
	return rec.TTL(now) < window
}

// nextProactiveDelay computes how long the proactive scheduler sleeps before
// its next refresh attempt. Outside the window the delay lands exactly on the
// window boundary; inside it, half the remaining TTL, so attempts accelerate
// as expiry nears. An expired record yields zero, never a negative delay.
func nextProactiveDelay(rec Record, now time.Time, window time.Duration) time.Duration {
	ttl := rec.TTL(now)
	if ttl < 0 {
		ttl = 0
	}
	if expiringSoon(rec, now, window) {
		return ttl / 2
	}
	return ttl - window
}
