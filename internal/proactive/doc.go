// Package proactive implements the background refresh scheduler for the
// tokencache credential.
//
// # Design
//
// A self-renewing one-shot timer, not a fixed-interval repeater: after every
// tick the next delay is recomputed from the record that is current at that
// moment, so the delay shrinks as expiry nears and resets after a successful
// refresh. A failed tick reschedules with the stale record's shrinking delay;
// background failures never stop the timer and never surface to callers.
//
// # What this package must NOT do
//
//   - Compute expiry policy — the next delay is an injected function.
//   - Propagate refresh errors anywhere.
//   - Import tokencache or any sibling package.
package proactive
