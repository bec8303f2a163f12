// Package jwt extracts the expiry instant from a compact JWT without verifying
// its signature.
//
// # Why no verification
//
// The credential cache is a client-side component: it received the token from
// its own issuer over an authenticated channel and only needs the exp claim to
// schedule refreshes. Signature verification is the resource server's job.
//
// # Architecture boundaries
//
// This package owns structural parsing of the token string and nothing else.
// Refresh policy, caching, and scheduling live in the tokencache root package.
//
// # What this package must NOT do
//
//   - Verify signatures or enforce claim validity windows.
//   - Perform I/O.
//   - Import tokencache or any sibling package.
package jwt
