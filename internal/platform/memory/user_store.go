package memory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/store"
)

// UserStore implements store.UserStore on a DB.
type UserStore struct {
	db     *DB
	logger *slog.Logger
	inTx   bool
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore. A nil logger means slog.Default().
func NewUserStore(db *DB, log *slog.Logger) *UserStore {
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{db: db, logger: log.With(slog.String("component", "memory_user_store"))}
}

// WithTx returns a copy of s for use inside Transactor.RunInTransaction.
// The transaction itself is tracked by the Transactor, not by tx.
func (s *UserStore) WithTx(*sql.Tx) store.UserStore {
	bound := *s
	bound.inTx = true
	return &bound
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return err
	}

	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.users[user.ID]; exists {
		return fmt.Errorf("%w: user %s", store.ErrDuplicate, user.ID)
	}

	cp := *user
	s.db.users[user.ID] = &cp
	s.db.userOrder = append(s.db.userOrder, user.ID)

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetForUpdate implements store.UserStore.GetForUpdate. Callers already hold
// the transaction lock, so this is a plain read.
func (s *UserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.GetByID(ctx, id)
}

// List implements store.UserStore.List.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	defer s.db.enter(s.inTx)()
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.db.userOrder))
	for _, id := range s.db.userOrder {
		cp := *s.db.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

// Update implements store.UserStore.Update.
func (s *UserStore) Update(ctx context.Context, user *domain.User, expectedVersion int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateName(user.Name); err != nil {
		return err
	}

	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if current.Version != expectedVersion {
		log.Info("user version conflict",
			slog.String("user_id", user.ID.String()),
			slog.Int64("expected_version", expectedVersion),
			slog.Int64("actual_version", current.Version))
		return store.ErrVersionConflict
	}

	next := *current
	next.Name = user.Name
	next.Version = current.Version + 1
	next.UpdatedAt = time.Now().UTC()
	s.db.users[user.ID] = &next

	*user = next
	return nil
}

// Delete implements store.UserStore.Delete. Like the foreign key in the
// Postgres schema, it refuses to delete a user that still owns accounts.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	defer s.db.enter(s.inTx)()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return store.ErrUserNotFound
	}
	for _, a := range s.db.accounts {
		if a.UserID == id {
			return fmt.Errorf("%w: user %s still owns accounts", store.ErrDeleteFailed, id)
		}
	}

	delete(s.db.users, id)
	for i, uid := range s.db.userOrder {
		if uid == id {
			s.db.userOrder = append(s.db.userOrder[:i:i], s.db.userOrder[i+1:]...)
			break
		}
	}
	return nil
}
