package domain

import (
	"time"

	"github.com/google/uuid"
)

// User owns zero or more bank accounts.
// Version is bumped by the store on every successful mutation and is used
// for optimistic concurrency control.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh random ID and version 0.
// Returns a *ValidationError if the name is invalid.
func NewUser(name string) (*User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the invariants of a User loaded or about to be stored.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "User ID must not be empty")
	}
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if u.Version < 0 {
		return NewValidationError(FieldVersion, "Version must not be negative")
	}
	return nil
}
