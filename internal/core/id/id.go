// Package id wraps UUID generation for entity identifiers.
// Identifiers are UUIDv7, so they sort by creation time and index well.
package id

import (
	"github.com/google/uuid"
)

// ID identifies every catalog, document and register row.
type ID = uuid.UUID

// New returns a fresh time-ordered identifier.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to v4.
		return uuid.New()
	}
	return v7
}

// Parse validates and converts a string identifier.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is Parse for fixtures and constants; panics on bad input.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero identifier.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the identifier is unset.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
