package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNameLength is the upper bound, in characters, for user and account names.
const MaxNameLength = 50

// DefaultMinInitialBalance is the smallest balance an account may be opened with.
var DefaultMinInitialBalance = decimal.NewFromInt(100)

// BalanceScale is the number of fractional digits a balance may carry.
const BalanceScale = 4

// MaxBalance is the exclusive upper bound on a balance. Together with
// BalanceScale it matches the NUMERIC(19, 4) column, so every accepted
// balance is stored exactly.
var MaxBalance = decimal.New(1, 15)

// Field names reported in validation errors. They match the JSON payload keys.
const (
	FieldName    = "name"
	FieldBalance = "balance"
	FieldVersion = "version"
)

// ValidateName rejects blank names and names longer than MaxNameLength.
func ValidateName(name string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return NewValidationError(FieldName, "Name must not be blank")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewValidationError(FieldName, "Name must not exceed 50 characters")
	}
	return nil
}

// ValidateBalance rejects negative balances and balances that cannot be
// stored exactly.
func ValidateBalance(balance decimal.Decimal) *ValidationError {
	switch {
	case balance.IsNegative():
		return NewValidationError(FieldBalance, "Balance must not be negative")
	case !balance.LessThan(MaxBalance):
		return NewValidationError(FieldBalance, "Balance must be less than "+MaxBalance.String())
	case !balance.Equal(balance.Truncate(BalanceScale)):
		return NewValidationError(FieldBalance, "Balance must not have more than 4 decimal places")
	}
	return nil
}

// ValidateInitialBalance rejects opening balances below min, then applies
// ValidateBalance.
func ValidateInitialBalance(balance, min decimal.Decimal) *ValidationError {
	if balance.LessThan(min) {
		return NewValidationError(FieldBalance, "Initial balance must be at least "+min.String())
	}
	return ValidateBalance(balance)
}

// ValidateNewAccount runs every guard that applies to account creation and
// reports all failing fields together.
func ValidateNewAccount(name string, initialBalance, minInitialBalance decimal.Decimal) error {
	return collect(
		ValidateName(name),
		ValidateInitialBalance(initialBalance, minInitialBalance),
	)
}
