// Package transport exposes an HTTP client adapter that authenticates outgoing
// requests with a tokencache.Credential.
//
// [Transport] is an http.RoundTripper: it calls Credential.Token once per
// outgoing request, sets the Authorization header on a clone of the request,
// and delegates to the base round tripper. A refresh failure surfaces as the
// request error.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Credential calls. It does NOT
// implement refresh logic itself — all decisions are delegated to
// Credential.Token.
//
// # What this package must NOT do
//
//   - Parse tokens or inspect expiry (the credential owns that).
//   - Retry requests or refresh attempts.
//   - Mutate the caller's request in place.
package transport
