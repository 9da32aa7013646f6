package models

import (
	"time"

	"github.com/google/uuid"
)

// File is a folder (Path is nil) or a stored object whose content lives in
// blob storage under Path. ParentID is nil for entries in the root.
type File struct {
	ID        uuid.UUID  `json:"id"`
	ParentID  *uuid.UUID `json:"-"`
	Name      string     `json:"name"`
	Path      *string    `json:"path"`
	OwnedBy   uuid.UUID  `json:"ownedBy"`
	EditedBy  *uuid.UUID `json:"editedBy"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt"`
}

func (f *File) IsFolder() bool {
	return f.Path == nil
}
