package memory

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/store"
	"github.com/shopspring/decimal"
)

// AccountStore implements store.AccountStore on a DB.
type AccountStore struct {
	db     *DB
	logger *slog.Logger
	inTx   bool
}

var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an AccountStore. A nil logger means slog.Default().
func NewAccountStore(db *DB, log *slog.Logger) *AccountStore {
	if log == nil {
		log = slog.Default()
	}
	return &AccountStore{db: db, logger: log.With(slog.String("component", "memory_account_store"))}
}

// WithTx returns a copy of s for use inside Transactor.RunInTransaction.
// The transaction itself is tracked by the Transactor, not by tx.
func (s *AccountStore) WithTx(*sql.Tx) store.AccountStore {
	bound := *s
	bound.inTx = true
	return &bound
}

// withOwner returns a copy of a carrying a snapshot of its owner.
// Callers must hold db.mu.
func (s *AccountStore) withOwner(a *domain.Account) *domain.Account {
	cp := *a
	if u, ok := s.db.users[a.UserID]; ok {
		owner := *u
		cp.Owner = &owner
	} else {
		cp.Owner = nil
	}
	return &cp
}

// Create implements store.AccountStore.Create.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create", slog.String("error", err.Error()))
		return err
	}

	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[account.UserID]; !ok {
		log.Warn("account owner does not exist", slog.String("user_id", account.UserID.String()))
		return store.ErrUserNotFound
	}

	s.db.nextID++
	stored := *account
	stored.ID = s.db.nextID
	stored.Owner = nil
	s.db.accounts[stored.ID] = &stored

	*account = *s.withOwner(&stored)

	log.Debug("account created",
		slog.Int64("account_id", stored.ID),
		slog.String("user_id", stored.UserID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return s.withOwner(a), nil
}

// List implements store.AccountStore.List.
func (s *AccountStore) List(ctx context.Context, order domain.AccountSort) ([]*domain.Account, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.RLock()
	out := make([]*domain.Account, 0, len(s.db.accounts))
	for _, a := range s.db.accounts {
		out = append(out, s.withOwner(a))
	}
	s.db.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return order.Less(out[i], out[j]) })
	return out, nil
}

// ListByUser implements store.AccountStore.ListByUser.
func (s *AccountStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.RLock()
	out := make([]*domain.Account, 0)
	for _, a := range s.db.accounts {
		if a.UserID == userID {
			out = append(out, s.withOwner(a))
		}
	}
	s.db.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateName implements store.AccountStore.UpdateName.
func (s *AccountStore) UpdateName(ctx context.Context, id int64, name string) (*domain.Account, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	return s.replace(id, func(a *domain.Account) { a.Name = name })
}

// UpdateBalance implements store.AccountStore.UpdateBalance.
func (s *AccountStore) UpdateBalance(
	ctx context.Context,
	id int64,
	balance decimal.Decimal,
) (*domain.Account, error) {
	if err := domain.ValidateBalance(balance); err != nil {
		return nil, err
	}
	return s.replace(id, func(a *domain.Account) { a.Balance = balance })
}

func (s *AccountStore) replace(id int64, mutate func(*domain.Account)) (*domain.Account, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}

	next := *current
	mutate(&next)
	next.UpdatedAt = time.Now().UTC()
	s.db.accounts[id] = &next

	return s.withOwner(&next), nil
}

// Delete implements store.AccountStore.Delete.
func (s *AccountStore) Delete(ctx context.Context, id int64) error {
	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.accounts[id]; !ok {
		return store.ErrAccountNotFound
	}
	delete(s.db.accounts, id)
	return nil
}

// DeleteByUser implements store.AccountStore.DeleteByUser.
func (s *AccountStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var n int64
	for id, a := range s.db.accounts {
		if a.UserID == userID {
			delete(s.db.accounts, id)
			n++
		}
	}
	return n, nil
}
