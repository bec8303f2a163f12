package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the input is not a structurally valid compact JWT.
	ErrMalformed = errors.New("malformed token")
	// ErrNoExpiry is returned when the token parses but carries no exp claim.
	ErrNoExpiry = errors.New("token has no expiry claim")
)

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// ExpiryOf describes the expiryof operation and its observable behavior.
//
// ExpiryOf may return an error when input validation, dependency calls, or security checks fail.
// ExpiryOf does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ExpiryOf(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, ErrMalformed
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}

	return claims.ExpiresAt.Time, nil
}
