package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// TestifyMockAccountStore is a mock of store.AccountStore for use with testify/mock.
// WithTx always returns the mock itself.
type TestifyMockAccountStore struct {
	mock.Mock
}

var _ store.AccountStore = (*TestifyMockAccountStore)(nil)

func accountResult(args mock.Arguments) (*domain.Account, error) {
	if a, ok := args.Get(0).(*domain.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func accountsResult(args mock.Arguments) ([]*domain.Account, error) {
	if a, ok := args.Get(0).([]*domain.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *TestifyMockAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return accountResult(m.Called(ctx, id))
}

func (m *TestifyMockAccountStore) List(ctx context.Context, s domain.AccountSort) ([]*domain.Account, error) {
	return accountsResult(m.Called(ctx, s))
}

func (m *TestifyMockAccountStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return accountsResult(m.Called(ctx, userID))
}

func (m *TestifyMockAccountStore) UpdateName(ctx context.Context, id int64, name string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, id, name))
}

func (m *TestifyMockAccountStore) UpdateBalance(
	ctx context.Context,
	id int64,
	balance decimal.Decimal,
) (*domain.Account, error) {
	return accountResult(m.Called(ctx, id, balance))
}

func (m *TestifyMockAccountStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TestifyMockAccountStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *TestifyMockAccountStore) WithTx(*sql.Tx) store.AccountStore {
	return m
}
