// Package flight implements the single-flight refresh coordinator behind the
// tokencache credential.
//
// # Design
//
// Any number of callers observing a stale record collapse into one refresh
// cycle: the first caller under the lock becomes the leader and runs the
// refresh function outside the lock; everyone else becomes a waiter on the
// cycle's one-shot latch. The result — record or error — is published under
// the lock before the latch opens, so waiters never observe a half-installed
// record. The same algorithm serves both concurrency models; only the latch
// wait adapter differs (Block for thread-blocking callers, Await for
// context-aware callers).
//
// # What this package must NOT do
//
//   - Retain records beyond delivering them (the facade owns the slot contents).
//   - Decide expiry policy — staleness is an injected predicate.
//   - Import tokencache or any sibling package.
package flight
