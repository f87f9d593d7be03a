package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// The entity-specific errors below all wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert collides with an existing key.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or when the database rejects it on a CHECK/NOT NULL constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrVersionConflict is returned by compare-and-swap updates when the
	// stored version no longer matches the version the caller read.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDeleteFailed is returned when a delete fails, for example because
	// the row is still referenced by other rows.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrAccountNotFound indicates that the requested bank account does not exist.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError reports whether err is an optimistic-locking failure.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
