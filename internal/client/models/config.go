package models

import "github.com/google/uuid"

// Config holds one user's sorting and display preferences. It is changed on
// the server one field at a time and never replaced wholesale.
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

// Sort keys accepted by the server for Config.SortField.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortByEditedAt  = "edited_at"
)

// Value returns the boolean that field selects.
func (c Config) Value(field Field) bool {
	switch field {
	case FieldAscending:
		return c.Ascending
	case FieldCreatedAt:
		return c.ShowCreatedAt
	case FieldEditedAt:
		return c.ShowEditedAt
	case FieldOwnedBy:
		return c.ShowOwner
	case FieldEditedBy:
		return c.ShowEditor
	case FieldFiltered:
		return c.Filtered
	default:
		panic(unknownField(field))
	}
}

// With returns a copy of c with field set to value.
func (c Config) With(field Field, value bool) Config {
	switch field {
	case FieldAscending:
		c.Ascending = value
	case FieldCreatedAt:
		c.ShowCreatedAt = value
	case FieldEditedAt:
		c.ShowEditedAt = value
	case FieldOwnedBy:
		c.ShowOwner = value
	case FieldEditedBy:
		c.ShowEditor = value
	case FieldFiltered:
		c.Filtered = value
	default:
		panic(unknownField(field))
	}
	return c
}
