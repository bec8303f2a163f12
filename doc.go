// Package tokencache provides a concurrent token-refresh cache: a credential
// wrapper that holds one bearer token plus its expiry, serves it to arbitrarily
// many concurrent callers, and refreshes it exactly once when it is expiring.
//
// The package is designed for concurrent client workloads: Credential methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. Callers that discover an expiring token simultaneously
// collapse into a single refresh call, and the outcome — a new record or the
// refresher's error — fans out to every caller attached to that cycle.
//
// # Architecture boundaries
//
// tokencache is the public surface. It exposes [Credential], [Builder],
// [Config], and value types (Record, MetricsSnapshot, AuditEvent). All internal
// coordination — single-flight refresh, proactive scheduling — lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Perform the credential exchange itself (the refresher is injected).
//   - Retry or back off a failed refresher call (outcomes surface as-is).
//   - Persist tokens anywhere, or cache more than one logical credential.
//
// # Performance contract
//
// Token is the hot path. While the cached record is outside the refresh
// window it must complete with one atomic pointer load and no lock
// acquisition. Refresh cycles are allowed one refresher invocation per cycle.
package tokencache
