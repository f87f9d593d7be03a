package mocks

import (
	"context"

	"github.com/phrazzld/account-service/internal/store"
)

// MockTransactor implements store.Transactor for testing.
// By default it calls fn directly with a nil transaction.
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts RunInTransaction invocations.
	Calls int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements the store.Transactor interface
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}
