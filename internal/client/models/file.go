package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInconsistentEdit = errors.New("editedAt and editedBy must be set together")

// File is either a folder (Path is nil) or a leaf object whose content can
// be downloaded.
type File struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Path      *string    `json:"path"`
	OwnedBy   uuid.UUID  `json:"ownedBy"`
	EditedBy  *uuid.UUID `json:"editedBy"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt"`
}

// IsFolder reports whether f is a container.
func (f File) IsFolder() bool {
	return f.Path == nil
}

// Validate checks that the edit stamp is either complete or absent.
func (f File) Validate() error {
	if (f.EditedAt == nil) != (f.EditedBy == nil) {
		return ErrInconsistentEdit
	}
	return nil
}
