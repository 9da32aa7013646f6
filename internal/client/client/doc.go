// Package client talks to the ProtoDrive storage service over HTTP.
//
// # Overview
//
// The package provides:
//  1. The Client interface: register, login/logout, folder listing, config
//     read and partial update, upload and download.
//  2. HTTPClient, the implementation. Each call builds its own request,
//     checks the status code before reading the body and decodes the body
//     into the models package types.
//  3. An authenticating RoundTripper placed in front of the transport. It
//     attaches the token from session.Store to every request that does not
//     already carry an Authorization header.
//
// # Error Handling
//
// Failures are reported as *APIError wrapping one of the sentinels, so
// callers match them with errors.Is: ErrInvalidCredentials, ErrConflict,
// ErrNotFound, ErrMalformedResponse, ErrServer. ErrUnavailable marks requests
// that never got a response. Nothing is retried.
//
// Passing a models.Field outside the declared set panics.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. The only shared state is the
// session.Store, which swaps its token atomically. Every call honours its
// context; the overall request timeout is set once at construction.
package client
