// Package internal contains the concurrency machinery that is intentionally
// private to tokencache.
//
// # Sub-packages
//
//   - flight — single-flight refresh coordination (leader/waiter cycles)
//   - proactive — the self-renewing background refresh timer
//
// # What this package must NOT do
//
//   - Export types that appear in the public tokencache API.
//   - Be imported by any package outside the tokencache module.
package internal
