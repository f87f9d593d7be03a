package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/store"
)

// SQLSTATE codes handled by MapError.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	numericOutOfRangeCode   = "22003"
)

// checkConstraints maps the CHECK constraints created by the migrations to
// the field they guard. A violation means a write slipped past the domain
// guards, so it is reported the same way the guard would have reported it.
var checkConstraints = map[string]*domain.ValidationError{
	"users_name_check":            domain.NewValidationError("name", "Name must not be blank"),
	"users_version_check":         domain.NewValidationError("version", "Version must not be negative"),
	"bank_accounts_name_check":    domain.NewValidationError("name", "Name must not be blank"),
	"bank_accounts_balance_check": domain.NewValidationError("balance", "Balance must not be negative"),
}

// MapError translates a database error into the store error callers match on.
// The driver error stays in the message for the logs; it never reaches clients.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %s: %v", store.ErrDuplicate, pgErr.ConstraintName, err)
	case foreignKeyViolationCode:
		// the only foreign key is bank_accounts.user_id
		return fmt.Errorf("%w: %s: %v", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case checkViolationCode:
		if verr, ok := checkConstraints[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, verr)
		}
		return fmt.Errorf("%w: check %s: %v", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case numericOutOfRangeCode:
		// bank_accounts.balance is the only bounded numeric column
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity,
			domain.NewValidationError("balance", "Balance must be less than "+domain.MaxBalance.String()))
	case notNullViolationCode:
		return fmt.Errorf("%w: %s.%s is required: %v",
			store.ErrInvalidEntity, pgErr.TableName, pgErr.ColumnName, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

// IsForeignKeyViolation reports whether err is a foreign key violation. On
// insert into bank_accounts it means the owner is missing; on delete from
// users it means the user still owns accounts.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolationCode)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE matched no row.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}
