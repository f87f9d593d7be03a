package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/store"
	"github.com/shopspring/decimal"
)

// accountSelect reads an account joined with its owner. Queries append
// WHERE/ORDER BY clauses to it.
const accountSelect = `
	SELECT a.id, a.name, a.balance, a.user_id, a.created_at, a.updated_at,
	       u.id, u.name, u.version, u.created_at, u.updated_at
	FROM bank_accounts a
	JOIN users u ON u.id = a.user_id
`

// sortColumns whitelists the ORDER BY columns; nothing from the request is
// ever interpolated into SQL.
var sortColumns = map[domain.SortField]string{
	domain.SortByID:      "a.id",
	domain.SortByName:    "a.name",
	domain.SortByBalance: "a.balance",
}

// PostgresAccountStore implements store.AccountStore on PostgreSQL.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a PostgresAccountStore.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

// WithTx implements store.AccountStore.WithTx.
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{db: tx, logger: s.logger}
}

// Create implements store.AccountStore.Create. The identity column assigns
// the ID; the foreign key on user_id rejects unknown owners.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO bank_accounts (name, balance, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		account.Name,
		account.Balance,
		account.UserID,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during account creation",
				slog.String("user_id", account.UserID.String()))
			return store.ErrUserNotFound
		}
		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("user_id", account.UserID.String()))
		return MapError(err)
	}

	log.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.String("user_id", account.UserID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	a, err := scanAccount(s.db.QueryRowContext(ctx, accountSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.Int64("account_id", id))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return nil, MapError(err)
	}
	return a, nil
}

// List implements store.AccountStore.List.
func (s *PostgresAccountStore) List(ctx context.Context, order domain.AccountSort) ([]*domain.Account, error) {
	return s.query(ctx, accountSelect+orderBy(order))
}

// ListByUser implements store.AccountStore.ListByUser.
func (s *PostgresAccountStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return s.query(ctx, accountSelect+` WHERE a.user_id = $1 ORDER BY a.id ASC`, userID)
}

func orderBy(order domain.AccountSort) string {
	column, ok := sortColumns[order.Field]
	if !ok {
		column = sortColumns[domain.SortByID]
	}
	direction := "ASC"
	if order.Descending() {
		direction = "DESC"
	}
	if column == "a.id" {
		return fmt.Sprintf(" ORDER BY a.id %s", direction)
	}
	return fmt.Sprintf(" ORDER BY %s %s, a.id ASC", column, direction)
}

func (s *PostgresAccountStore) query(ctx context.Context, query string, args ...any) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query accounts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateName implements store.AccountStore.UpdateName.
func (s *PostgresAccountStore) UpdateName(ctx context.Context, id int64, name string) (*domain.Account, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	return s.update(ctx, id, "name", name)
}

// UpdateBalance implements store.AccountStore.UpdateBalance.
func (s *PostgresAccountStore) UpdateBalance(
	ctx context.Context,
	id int64,
	balance decimal.Decimal,
) (*domain.Account, error) {
	if err := domain.ValidateBalance(balance); err != nil {
		return nil, err
	}
	return s.update(ctx, id, "balance", balance)
}

// update sets one column and reads the joined row back in the same statement.
// column is always a constant chosen by the caller.
func (s *PostgresAccountStore) update(ctx context.Context, id int64, column string, value any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		WITH a AS (
			UPDATE bank_accounts SET %s = $1, updated_at = $2
			WHERE id = $3
			RETURNING id, name, balance, user_id, created_at, updated_at
		)
		SELECT a.id, a.name, a.balance, a.user_id, a.created_at, a.updated_at,
		       u.id, u.name, u.version, u.created_at, u.updated_at
		FROM a
		JOIN users u ON u.id = a.user_id
	`, column)

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, value, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("column", column),
			slog.Int64("account_id", id))
		return nil, MapError(err)
	}

	log.Info("account updated",
		slog.Int64("account_id", id),
		slog.String("column", column))
	return a, nil
}

// Delete implements store.AccountStore.Delete.
func (s *PostgresAccountStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		return err
	}

	log.Info("account deleted", slog.Int64("account_id", id))
	return nil
}

// DeleteByUser implements store.AccountStore.DeleteByUser.
func (s *PostgresAccountStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM bank_accounts WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete accounts of user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("accounts of user deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("count", n))
	return n, nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a     domain.Account
		owner domain.User
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Balance, &a.UserID, &a.CreatedAt, &a.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Version, &owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Owner = &owner
	return &a, nil
}
