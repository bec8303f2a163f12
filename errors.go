package tokencache

import "errors"

var (
	// ErrTokenMalformed is an exported constant or variable used by the token cache.
	ErrTokenMalformed = errors.New("malformed initial token")
	// ErrCredentialClosed is an exported constant or variable used by the token cache.
	ErrCredentialClosed = errors.New("credential closed")
	// ErrTokenExpired is an exported constant or variable used by the token cache.
	ErrTokenExpired = errors.New("token expired and no refresher configured")
)

// RefreshError wraps the error raised by the injected refresher. It is
// delivered verbatim to the leader and to every waiter attached to the failed
// cycle; errors.Is and errors.As match against the wrapped error.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "token refresh failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}
