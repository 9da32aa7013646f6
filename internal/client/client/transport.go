package client

import (
	"net/http"

	"github.com/dmitrijs2005/protodrive/internal/common"
)

// TokenSource supplies the current bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// authTransport adds "Authorization: Bearer <token>" to requests that carry
// no Authorization header yet. Requests that already have one, or sent while
// no session exists, pass through untouched.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func newAuthTransport(base http.RoundTripper, tokens TokenSource) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{base: base, tokens: tokens}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.AuthorizationHeader) == "" {
		if token, ok := t.tokens.Token(); ok {
			// RoundTrip must not modify the caller's request.
			req = req.Clone(req.Context())
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}
	return t.base.RoundTrip(req)
}
