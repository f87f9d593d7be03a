package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user's ID and Version are taken as given.
	// Returns the domain validation error if the user is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetForUpdate retrieves a user and locks it for the remainder of the
	// enclosing transaction, so that concurrent writers touching the same user
	// (renames, deletes, account creation) are serialized.
	// Returns ErrUserNotFound if the user does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns every user in creation order.
	List(ctx context.Context) ([]*domain.User, error)

	// Update writes user.Name if the stored version equals expectedVersion,
	// then increments the version. On success user.Version and user.UpdatedAt
	// are set to the stored values.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrVersionConflict if the versions differ.
	Update(ctx context.Context, user *domain.User, expectedVersion int64) error

	// Delete removes a user. Accounts must be removed first.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
