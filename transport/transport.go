package transport

import (
	"net/http"

	tokencache "github.com/MrEthical07/tokencache"
)

// Transport authenticates outgoing requests with a bearer token from the
// wrapped credential.
type Transport struct {
	// Credential supplies the bearer token. Required.
	Credential *tokencache.Credential
	// Base performs the actual request. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// NewTransport wraps base with bearer authentication from cred.
func NewTransport(cred *tokencache.Credential, base http.RoundTripper) *Transport {
	return &Transport{Credential: cred, Base: base}
}

// RoundTrip fetches the current token and forwards a cloned request carrying
// it. Concurrent requests hitting an expiring token share one refresh call.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec, err := t.Credential.Token(req.Context())
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+rec.Value)

	return t.base().RoundTrip(clone)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
