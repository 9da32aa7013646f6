package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials: login rejected (401/400). Re-prompt the user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict: the resource already exists (409 on register).
	ErrConflict = errors.New("conflict")
	// ErrNotFound: the referenced folder or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse: a 2xx body was empty or did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrServer: any other non-success status.
	ErrServer = errors.New("server error")
	// ErrUnavailable: the request never produced a response (dial, timeout, cancel).
	ErrUnavailable = errors.New("server unavailable")
)

// APIError describes a failed exchange with the storage service. Kind is one
// of the sentinels above and is what errors.Is matches against.
type APIError struct {
	Op         string
	StatusCode int
	// Message is the response body as sent by the server, or the decode
	// failure for ErrMalformedResponse.
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}
