package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/events"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/store"
)

// UserService provides the user lifecycle operations.
type UserService interface {
	// Register creates a user with a fresh ID and version 0.
	Register(ctx context.Context, name string) (*domain.User, error)

	// List returns every user in creation order.
	List(ctx context.Context) ([]*domain.User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateName renames a user against the version it reads first. A rename
	// that commits in between causes store.ErrVersionConflict.
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)

	// UpdateNameAt renames a user only if its version still equals
	// expectedVersion.
	UpdateNameAt(ctx context.Context, id uuid.UUID, name string, expectedVersion int64) (*domain.User, error)

	// Delete removes a user together with every account it owns.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore    store.UserStore
	accountStore store.AccountStore
	tx           store.Transactor
	emitter      events.EventEmitter
	logger       *slog.Logger
}

// NewUserService creates a new UserService.
// accountStore is needed for the cascade on Delete.
func NewUserService(
	userStore store.UserStore,
	accountStore store.AccountStore,
	tx store.Transactor,
	emitter events.EventEmitter,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &UserServiceImpl{
		userStore:    userStore,
		accountStore: accountStore,
		tx:           tx,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "user_service")),
	}
}

// Register implements UserService.Register.
func (s *UserServiceImpl) Register(ctx context.Context, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name)
	if err != nil {
		log.Debug("rejected user registration", slog.String("error", err.Error()))
		return nil, err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		log.Error("failed to register user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	publish(ctx, s.emitter, log, events.UserRegistered, userPayload(user))
	return user, nil
}

// List implements UserService.List.
func (s *UserServiceImpl) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID implements UserService.GetByID.
func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NewUserNotFoundError(id)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateName implements UserService.UpdateName.
func (s *UserServiceImpl) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	return s.rename(ctx, id, name, nil)
}

// UpdateNameAt implements UserService.UpdateNameAt.
func (s *UserServiceImpl) UpdateNameAt(
	ctx context.Context,
	id uuid.UUID,
	name string,
	expectedVersion int64,
) (*domain.User, error) {
	return s.rename(ctx, id, name, &expectedVersion)
}

// rename validates name, then writes it with a compare-and-swap on version.
// A nil expectedVersion means "the version just read".
func (s *UserServiceImpl) rename(
	ctx context.Context,
	id uuid.UUID,
	name string,
	expectedVersion *int64,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if verr := domain.ValidateName(name); verr != nil {
		return nil, verr
	}

	var updated *domain.User
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		user, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		version := user.Version
		if expectedVersion != nil {
			version = *expectedVersion
		}

		user.Name = name
		if err := users.Update(ctx, user, version); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, NewUserNotFoundError(id)
		case errors.Is(err, store.ErrVersionConflict):
			log.Info("user rename lost a concurrent update", slog.String("user_id", id.String()))
			return nil, fmt.Errorf("failed to update user name: %w", err)
		}
		log.Error("failed to update user name",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, fmt.Errorf("failed to update user name: %w", err)
	}

	log.Info("user renamed",
		slog.String("user_id", id.String()),
		slog.Int64("version", updated.Version))
	publish(ctx, s.emitter, log, events.UserRenamed, userPayload(updated))
	return updated, nil
}

// Delete implements UserService.Delete. The user row is locked first so no
// account can be created for it while its accounts are being removed.
func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed int64
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		if _, err := users.GetForUpdate(ctx, id); err != nil {
			return err
		}

		n, err := s.accountStore.WithTx(tx).DeleteByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete accounts of user: %w", err)
		}
		removed = n

		return users.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return NewUserNotFoundError(id)
		}
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted",
		slog.String("user_id", id.String()),
		slog.Int64("accounts_deleted", removed))
	publish(ctx, s.emitter, log, events.UserDeleted, events.UserDeletedPayload{
		UserID:          id,
		AccountsDeleted: removed,
	})
	return nil
}
