package tokencache

import (
	"context"
	"time"
)

// Record is an immutable token value plus its absolute expiry instant. A
// refresh produces a new Record; nothing in this package mutates one in place.
type Record struct {
	Value     string
	ExpiresOn time.Time
}

// TTL returns the remaining time to live of the record at now. Negative once
// the record has expired.
func (r Record) TTL(now time.Time) time.Duration {
	return r.ExpiresOn.Sub(now)
}

// Refresher is the external collaborator that exchanges credentials for a new
// token. The cache invokes it at most once per refresh cycle, outside any
// lock; its timeout policy is its own.
type Refresher func(ctx context.Context) (Record, error)

// Decoder extracts the expiry instant from a raw token string. The default
// decoder reads the exp claim of a compact JWT (see the jwt sub-package).
type Decoder func(token string) (time.Time, error)
