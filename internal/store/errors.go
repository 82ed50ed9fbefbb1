package store

import "errors"

var (
	// ErrNotBound is returned when a lookup names a variable absent from the
	// active configuration.
	ErrNotBound = errors.New("configuration variable is not bound")
	// ErrTypeMismatch is returned when a variable is bound with a different
	// kind than the lookup requested.
	ErrTypeMismatch = errors.New("incompatible type for configuration variable")
	// ErrExpansionCycle is returned when $name expansion inside string values
	// references itself, directly or transitively.
	ErrExpansionCycle = errors.New("expansion cycle in string value")
)
