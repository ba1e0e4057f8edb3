package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness or numbering race is lost
	ErrConflict = errors.New("conflict: entity was modified by a concurrent writer")

	// ErrImmutable is returned when a write targets a version marked final
	ErrImmutable = errors.New("version is final and immutable")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
