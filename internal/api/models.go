package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Balances are written as JSON numbers carrying the stored decimal exactly.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Common request/response structures

// RegisterUserRequest defines the payload for POST /users/register.
// Name rules (blank, length) are enforced by the domain guards.
type RegisterUserRequest struct {
	Name string `json:"name"`
}

// UpdateUserNameRequest defines the payload for PUT /users/{id}/name.
type UpdateUserNameRequest struct {
	Name string `json:"name"`

	// Version, when present, must equal the stored version or the update is
	// rejected with 409 Conflict.
	Version *int64 `json:"version,omitempty" validate:"omitempty,gte=0"`
}

// CreateAccountRequest defines the payload for POST /accounts.
type CreateAccountRequest struct {
	Name    string           `json:"name"`
	Balance *decimal.Decimal `json:"balance" validate:"required"`
	UserID  string           `json:"userId"  validate:"required"`
}

// UpdateAccountNameRequest defines the payload for PUT /accounts/{id}/name.
type UpdateAccountNameRequest struct {
	Name string `json:"name"`
}

// UpdateAccountBalanceRequest defines the payload for PUT /accounts/{id}/balance.
type UpdateAccountBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" validate:"required"`
}

// UserResponse is the JSON representation of a user.
type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Version int64     `json:"version"`
}

// AccountOwnerResponse is the owner embedded in an AccountResponse.
type AccountOwnerResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// AccountResponse is the JSON representation of a bank account.
type AccountResponse struct {
	ID      int64                `json:"id"`
	Name    string               `json:"name"`
	Balance decimal.Decimal      `json:"balance"`
	User    AccountOwnerResponse `json:"user"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Version: u.Version}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}

func accountToResponse(a *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:      a.ID,
		Name:    a.Name,
		Balance: a.Balance,
		User:    AccountOwnerResponse{ID: a.UserID},
	}
	if a.Owner != nil {
		resp.User.Name = a.Owner.Name
	}
	return resp
}

func accountsToResponse(accounts []*domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountToResponse(a))
	}
	return out
}
