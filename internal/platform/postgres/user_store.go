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
)

const userColumns = `id, name, version, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, name, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Version,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: user %s", store.ErrDuplicate, user.ID)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetForUpdate implements store.UserStore.GetForUpdate with SELECT ... FOR UPDATE.
// Outside a transaction the lock is released as soon as the statement ends.
func (s *PostgresUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresUserStore) get(ctx context.Context, query string, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, MapError(err)
	}
	return user, nil
}

// List implements store.UserStore.List.
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Update implements store.UserStore.Update as a compare-and-swap on version.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User, expectedVersion int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateName(user.Name); err != nil {
		return err
	}

	query := `
		UPDATE users
		SET name = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
		RETURNING version, updated_at, created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		user.Name,
		time.Now().UTC(),
		user.ID,
		expectedVersion,
	).Scan(&user.Version, &user.UpdatedAt, &user.CreatedAt)
	if err == nil {
		log.Info("user updated",
			slog.String("user_id", user.ID.String()),
			slog.Int64("version", user.Version))
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	// No row matched: either the user is gone or someone else bumped the version.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, user.ID,
	).Scan(&exists); err != nil {
		return MapError(err)
	}
	if !exists {
		return store.ErrUserNotFound
	}

	log.Info("user version conflict",
		slog.String("user_id", user.ID.String()),
		slog.Int64("expected_version", expectedVersion))
	return store.ErrVersionConflict
}

// Delete implements store.UserStore.Delete.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("user still owns accounts", slog.String("user_id", id.String()))
			return fmt.Errorf("%w: user %s still owns accounts", store.ErrDeleteFailed, id)
		}
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
