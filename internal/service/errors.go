package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/store"
)

// Entity names used in NotFoundError.
const (
	EntityUser    = "User"
	EntityAccount = "Account"
)

// NotFoundError reports that a referenced user or account does not exist.
// It unwraps to the store sentinel (store.ErrUserNotFound or
// store.ErrAccountNotFound), so callers may use either errors.As or errors.Is.
//
// The API layer maps this error to HTTP 404 and uses Error() as the message.
type NotFoundError struct {
	Entity string
	ID     string
	Err    error
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewUserNotFoundError creates a NotFoundError for a user ID.
func NewUserNotFoundError(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: EntityUser, ID: id.String(), Err: store.ErrUserNotFound}
}

// NewAccountNotFoundError creates a NotFoundError for an account ID.
func NewAccountNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{
		Entity: EntityAccount,
		ID:     strconv.FormatInt(id, 10),
		Err:    store.ErrAccountNotFound,
	}
}

// userError replaces store.ErrUserNotFound with a NotFoundError for id and
// passes anything else through.
func userError(id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return NewUserNotFoundError(id)
	}
	return err
}

// accountError replaces store.ErrAccountNotFound with a NotFoundError for id.
func accountError(id int64, err error) error {
	if errors.Is(err, store.ErrAccountNotFound) {
		return NewAccountNotFoundError(id)
	}
	return err
}
