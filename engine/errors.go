package engine

import "errors"

var (
	// ErrUnknownField is returned when an edit, sort, or add names a field
	// outside the fixed row schema.
	ErrUnknownField = errors.New("lattice: unknown field")

	// ErrBadCursor is returned (or wrapped) by data sources handed a
	// continuation cursor they did not produce.
	ErrBadCursor = errors.New("lattice: malformed cursor")
)
