package models

import (
	"slices"

	"github.com/google/uuid"
)

// Config is one user's display preferences. Each boolean is addressed by
// the column name listed in ConfigFlags.
type Config struct {
	UserID        uuid.UUID `json:"userId"`
	SortField     *string   `json:"sorted"`
	Ascending     bool      `json:"ascending"`
	ShowCreatedAt bool      `json:"createdAt"`
	ShowEditedAt  bool      `json:"editedAt"`
	ShowOwner     bool      `json:"ownedBy"`
	ShowEditor    bool      `json:"editedBy"`
	Filtered      bool      `json:"filtered"`
}

// ConfigFlags are the boolean config columns that may be updated one at a time.
var ConfigFlags = []string{"ascending", "created_at", "edited_at", "owned_by", "edited_by", "filtered"}

// SortFields are the accepted values of Config.SortField.
var SortFields = []string{"name", "created_at", "edited_at"}

func IsConfigFlag(name string) bool {
	return slices.Contains(ConfigFlags, name)
}

func IsSortField(name string) bool {
	return slices.Contains(SortFields, name)
}
