package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountStore defines the interface for bank account persistence.
//
// Every read populates Account.Owner with the owning user's current snapshot.
type AccountStore interface {
	// Create inserts a new account and assigns its sequence ID to account.ID.
	// Returns the domain validation error if the account is invalid and
	// ErrUserNotFound if account.UserID does not reference a stored user.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	// Returns ErrAccountNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// List returns all accounts ordered by s, ties broken by ID ascending.
	List(ctx context.Context, s domain.AccountSort) ([]*domain.Account, error)

	// ListByUser returns the accounts owned by userID ordered by ID.
	// It does not check that the user exists.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)

	// UpdateName replaces the account name and returns the updated account.
	// Returns ErrAccountNotFound if it does not exist and the domain
	// validation error if the name is invalid.
	UpdateName(ctx context.Context, id int64, name string) (*domain.Account, error)

	// UpdateBalance replaces the balance wholesale and returns the updated account.
	// Returns ErrAccountNotFound if it does not exist and the domain
	// validation error if the balance is negative.
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*domain.Account, error)

	// Delete removes a single account.
	// Returns ErrAccountNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByUser removes every account owned by userID and reports how many
	// were removed.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns an AccountStore bound to the given transaction.
	WithTx(tx *sql.Tx) AccountStore
}
