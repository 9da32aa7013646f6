// Package session holds the bearer token of the signed-in user.
//
// A Store is created once per process and handed to every component that
// makes authenticated requests. The token lives in memory only.
package session

import "sync/atomic"

// Store keeps zero or one bearer token. Reads and writes swap a pointer
// atomically, so a reader never sees a half-written value.
type Store struct {
	token atomic.Pointer[string]
}

func NewStore() *Store {
	return &Store{}
}

// Token returns the current token and whether one is set.
func (s *Store) Token() (string, bool) {
	p := s.token.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set replaces the token. An empty token clears the store.
func (s *Store) Set(token string) {
	if token == "" {
		s.Clear()
		return
	}
	s.token.Store(&token)
}

func (s *Store) Clear() {
	s.token.Store(nil)
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	return s.token.Load() != nil
}
