package models

import "github.com/google/uuid"

// User is the server-side identity record. It is implied by the
// authentication calls and is never sent to or built by the client.
type User struct {
	ID           uuid.UUID `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
}
