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
	"github.com/shopspring/decimal"
)

// AccountService provides the bank account operations.
type AccountService interface {
	// List returns every account ordered by sortBy/sortOrder. Unknown values
	// fall back to id and asc.
	List(ctx context.Context, sortBy, sortOrder string) ([]*domain.Account, error)

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// Create opens an account for userID with the given initial balance.
	Create(ctx context.Context, name string, initialBalance decimal.Decimal, userID uuid.UUID) (*domain.Account, error)

	// UpdateName renames an account. The balance is untouched.
	UpdateName(ctx context.Context, id int64, name string) (*domain.Account, error)

	// UpdateBalance replaces the balance wholesale.
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*domain.Account, error)

	// Delete removes a single account.
	Delete(ctx context.Context, id int64) error

	// ListByUser returns the accounts of an existing user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
}

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountStore      store.AccountStore
	userStore         store.UserStore
	tx                store.Transactor
	emitter           events.EventEmitter
	minInitialBalance decimal.Decimal
	logger            *slog.Logger
}

// NewAccountService creates a new AccountService. minInitialBalance is the
// smallest balance an account may be opened with.
func NewAccountService(
	accountStore store.AccountStore,
	userStore store.UserStore,
	tx store.Transactor,
	emitter events.EventEmitter,
	minInitialBalance decimal.Decimal,
	logger *slog.Logger,
) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &AccountServiceImpl{
		accountStore:      accountStore,
		userStore:         userStore,
		tx:                tx,
		emitter:           emitter,
		minInitialBalance: minInitialBalance,
		logger:            logger.With(slog.String("component", "account_service")),
	}
}

// List implements AccountService.List.
func (s *AccountServiceImpl) List(ctx context.Context, sortBy, sortOrder string) ([]*domain.Account, error) {
	order := domain.ParseAccountSort(sortBy, sortOrder)

	accounts, err := s.accountStore.List(ctx, order)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list accounts",
			slog.String("error", err.Error()),
			slog.String("sort_by", string(order.Field)),
			slog.String("sort_order", string(order.Order)))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetByID implements AccountService.GetByID.
func (s *AccountServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accountStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, NewAccountNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}
	return account, nil
}

// Create implements AccountService.Create. Input is validated before the
// owner is looked up; the owner row stays locked until the insert commits.
func (s *AccountServiceImpl) Create(
	ctx context.Context,
	name string,
	initialBalance decimal.Decimal,
	userID uuid.UUID,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateNewAccount(name, initialBalance, s.minInitialBalance); err != nil {
		log.Debug("rejected account creation",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	var account *domain.Account
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		owner, err := s.userStore.WithTx(tx).GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		account = domain.NewAccount(name, initialBalance, owner)
		return s.accountStore.WithTx(tx).Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, userError(userID, err)
		}
		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.String("user_id", userID.String()))
	publish(ctx, s.emitter, log, events.AccountCreated, accountPayload(account))
	return account, nil
}

// UpdateName implements AccountService.UpdateName.
func (s *AccountServiceImpl) UpdateName(ctx context.Context, id int64, name string) (*domain.Account, error) {
	if verr := domain.ValidateName(name); verr != nil {
		return nil, verr
	}

	account, err := s.update(ctx, id, "name", func(ctx context.Context, accounts store.AccountStore) (*domain.Account, error) {
		return accounts.UpdateName(ctx, id, name)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.emitter, logger.FromContextOrDefault(ctx, s.logger),
		events.AccountRenamed, accountPayload(account))
	return account, nil
}

// UpdateBalance implements AccountService.UpdateBalance. Concurrent
// replacements are last-write-wins.
func (s *AccountServiceImpl) UpdateBalance(
	ctx context.Context,
	id int64,
	balance decimal.Decimal,
) (*domain.Account, error) {
	if verr := domain.ValidateBalance(balance); verr != nil {
		return nil, verr
	}

	account, err := s.update(ctx, id, "balance", func(ctx context.Context, accounts store.AccountStore) (*domain.Account, error) {
		return accounts.UpdateBalance(ctx, id, balance)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.emitter, logger.FromContextOrDefault(ctx, s.logger),
		events.AccountBalanceReplaced, accountPayload(account))
	return account, nil
}

func (s *AccountServiceImpl) update(
	ctx context.Context,
	id int64,
	field string,
	fn func(ctx context.Context, accounts store.AccountStore) (*domain.Account, error),
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var account *domain.Account
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		account, err = fn(ctx, s.accountStore.WithTx(tx))
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, accountError(id, err)
		}
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("field", field),
			slog.Int64("account_id", id))
		return nil, fmt.Errorf("failed to update account %s: %w", field, err)
	}

	log.Info("account updated",
		slog.Int64("account_id", id),
		slog.String("field", field))
	return account, nil
}

// Delete implements AccountService.Delete.
func (s *AccountServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deleted *domain.Account
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accountStore.WithTx(tx)

		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := accounts.Delete(ctx, id); err != nil {
			return err
		}
		deleted = account
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return accountError(id, err)
		}
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	log.Info("account deleted", slog.Int64("account_id", id))
	publish(ctx, s.emitter, log, events.AccountDeleted, events.AccountPayload{
		AccountID: deleted.ID,
		UserID:    deleted.UserID,
	})
	return nil
}

// ListByUser implements AccountService.ListByUser.
func (s *AccountServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, userError(userID, err)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	accounts, err := s.accountStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts of user: %w", err)
	}
	return accounts, nil
}
