package models

import "fmt"

// Field names one boolean attribute of Config. The set is closed: every
// switch over Field lists all variants and panics in its default branch.
type Field int

const (
	FieldAscending Field = iota
	FieldCreatedAt
	FieldEditedAt
	FieldOwnedBy
	FieldEditedBy
	FieldFiltered
)

// Fields lists every variant in declaration order.
func Fields() []Field {
	return []Field{FieldAscending, FieldCreatedAt, FieldEditedAt, FieldOwnedBy, FieldEditedBy, FieldFiltered}
}

// WireName is the name the storage service uses for the field.
func (f Field) WireName() string {
	switch f {
	case FieldAscending:
		return "ascending"
	case FieldCreatedAt:
		return "created_at"
	case FieldEditedAt:
		return "edited_at"
	case FieldOwnedBy:
		return "owned_by"
	case FieldEditedBy:
		return "edited_by"
	case FieldFiltered:
		return "filtered"
	default:
		panic(unknownField(f))
	}
}

func (f Field) String() string {
	return f.WireName()
}

// ParseField maps a wire name back to its Field.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields() {
		if f.WireName() == name {
			return f, true
		}
	}
	return 0, false
}

func unknownField(f Field) string {
	return fmt.Sprintf("unreachable: unknown config field %d", int(f))
}
