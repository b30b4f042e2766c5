package orm

import "errors"

var (
	// ErrUnknownAttribute is returned when a column name is not part of a
	// model's introspected column set.
	ErrUnknownAttribute = errors.New("orm: unknown attribute")

	// ErrUnresolvedAssociation is returned when a relationship name has no
	// descriptor, or a descriptor names a model that is not registered.
	ErrUnresolvedAssociation = errors.New("orm: unresolved association")

	// ErrEmptyFilter is returned by Where when no predicates are given.
	ErrEmptyFilter = errors.New("orm: empty filter")

	// ErrMissingPrimaryKey is returned when an operation needs the primary
	// key value and the instance has none.
	ErrMissingPrimaryKey = errors.New("orm: primary key value is required")

	ErrDuplicateModel     = errors.New("orm: duplicate model")
	ErrInvalidDeclaration = errors.New("orm: invalid declaration")
)
