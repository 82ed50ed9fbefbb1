package value

import "errors"

var (
	// ErrUnknownType is returned when the declared type name is not one of the
	// recognized type names.
	ErrUnknownType = errors.New("unknown type name")
	// ErrSyntax is returned when the value text does not fully match the grammar
	// of its declared type.
	ErrSyntax = errors.New("invalid value format")
)
