package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a named, balance-holding record owned by exactly one User.
//
// UserID is the foreign key. Owner is populated by stores on read and holds
// a snapshot of the owning user; it is never written through.
type Account struct {
	ID        int64
	Name      string
	Balance   decimal.Decimal
	UserID    uuid.UUID
	Owner     *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount builds an unsaved Account for the given owner.
// The ID is left at zero; the store assigns the next sequence number.
func NewAccount(name string, initialBalance decimal.Decimal, owner *User) *Account {
	now := time.Now().UTC()
	return &Account{
		Name:      name,
		Balance:   initialBalance,
		UserID:    owner.ID,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the invariants that must hold for any stored account.
// The minimum opening balance is a creation-time rule and is not checked here.
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return NewValidationError("userId", "User ID must not be empty")
	}
	return collect(ValidateName(a.Name), ValidateBalance(a.Balance))
}
