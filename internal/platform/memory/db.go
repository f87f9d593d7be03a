// Package memory provides in-process implementations of the store interfaces.
// It backs the "memory" database driver and the service and API tests.
package memory

import (
	"context"
	"database/sql"
	"log/slog"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/store"
)

// DB holds the state shared by the user and account stores.
//
// mu guards every map. txMu serializes units of work: at most one
// transaction runs at a time, which gives the same isolation the Postgres
// backend gets from row locks on the owning user. Calls made outside a
// transaction hold txMu for reading, so they never observe the uncommitted
// writes of a unit of work that may still roll back.
type DB struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*domain.User
	userOrder []uuid.UUID
	accounts  map[int64]*domain.Account
	nextID    int64

	txMu sync.RWMutex
}

// NewDB creates an empty database.
func NewDB() *DB {
	return &DB{
		users:    make(map[uuid.UUID]*domain.User),
		accounts: make(map[int64]*domain.Account),
	}
}

// enter waits for any running unit of work to finish and returns the
// matching release. Stores bound to a transaction already hold txMu.
func (db *DB) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	db.txMu.RLock()
	return db.txMu.RUnlock
}

type snapshot struct {
	users     map[uuid.UUID]*domain.User
	userOrder []uuid.UUID
	accounts  map[int64]*domain.Account
	nextID    int64
}

// Stored values are replaced, never mutated in place, so a shallow copy of
// the maps is enough to roll back.
func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return snapshot{
		users:     maps.Clone(db.users),
		userOrder: append([]uuid.UUID(nil), db.userOrder...),
		accounts:  maps.Clone(db.accounts),
		nextID:    db.nextID,
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.userOrder = s.userOrder
	db.accounts = s.accounts
	// sequence values are never reused, matching Postgres identity columns
	if s.nextID > db.nextID {
		db.nextID = s.nextID
	}
}

// Transactor is a store.Transactor over a DB.
type Transactor struct {
	db *DB
}

var _ store.Transactor = (*Transactor)(nil)

// NewTransactor creates a Transactor for db.
func NewTransactor(db *DB) *Transactor {
	return &Transactor{db: db}
}

// RunInTransaction runs fn with exclusive access to the database. If fn
// returns an error or panics, every change it made is discarded.
// fn receives a nil *sql.Tx. Stores must be bound with WithTx inside fn;
// unbound stores wait for the transaction and would deadlock.
func (t *Transactor) RunInTransaction(ctx context.Context, fn store.TxFn) (err error) {
	log := logger.FromContext(ctx)

	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	before := t.db.snapshot()

	defer func() {
		if p := recover(); p != nil {
			t.db.restore(before)
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
			panic(p)
		}
	}()

	if err = fn(ctx, (*sql.Tx)(nil)); err != nil {
		t.db.restore(before)
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
