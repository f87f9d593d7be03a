package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/events"
	"github.com/phrazzld/account-service/internal/mocks"
	"github.com/phrazzld/account-service/internal/platform/memory"
	"github.com/phrazzld/account-service/internal/service"
	"github.com/phrazzld/account-service/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("opens account with owner embedded", func(t *testing.T) {
		f := newFixture(t)
		alice, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)

		account, err := f.accounts.Create(ctx, "Savings", dec("100"), alice.ID)
		require.NoError(t, err)
		assert.Positive(t, account.ID)
		assert.Equal(t, "Savings", account.Name)
		assert.True(t, account.Balance.Equal(dec("100")))
		require.NotNil(t, account.Owner)
		assert.Equal(t, "Alice", account.Owner.Name)

		got, err := f.accounts.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Name, got.Name)
		assert.True(t, got.Balance.Equal(account.Balance))
		assert.Equal(t, alice.ID, got.UserID)
		assert.Equal(t, "Alice", got.Owner.Name)

		types := f.emitter.Types()
		assert.Equal(t, events.AccountCreated, types[len(types)-1])
	})

	t.Run("balance below minimum is rejected and nothing persisted", func(t *testing.T) {
		f := newFixture(t)
		alice, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)

		_, err = f.accounts.Create(ctx, "Savings", dec("50"), alice.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, domain.FieldErrors(err), "balance")

		_, err = f.accounts.Create(ctx, "Savings", dec("99.99"), alice.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)

		all, err := f.accounts.List(ctx, "", "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("unknown owner", func(t *testing.T) {
		f := newFixture(t)
		ghost := uuid.New()

		_, err := f.accounts.Create(ctx, "Savings", dec("100"), ghost)
		var nf *service.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, service.EntityUser, nf.Entity)
		assert.Equal(t, ghost.String(), nf.ID)
	})

	t.Run("all invalid fields are reported together", func(t *testing.T) {
		f := newFixture(t)
		alice, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)

		_, err = f.accounts.Create(ctx, "", dec("10"), alice.ID)
		fields := domain.FieldErrors(err)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "balance")
	})

	t.Run("validation runs before the owner lookup", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.accounts.Create(ctx, "Savings", dec("1"), uuid.New())
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NotErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("minimum is configurable", func(t *testing.T) {
		db := memory.NewDB()
		users := memory.NewUserStore(db, nil)
		accounts := memory.NewAccountStore(db, nil)
		tx := memory.NewTransactor(db)
		userSvc := service.NewUserService(users, accounts, tx, nil, nil)
		accountSvc := service.NewAccountService(accounts, users, tx, nil, decimal.Zero, nil)

		alice, err := userSvc.Register(ctx, "Alice")
		require.NoError(t, err)

		account, err := accountSvc.Create(ctx, "Empty", decimal.Zero, alice.ID)
		require.NoError(t, err)
		assert.True(t, account.Balance.IsZero())
	})
}

func TestAccountService_CreateRacingUserDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, _ = f.accounts.Create(ctx, "Savings", dec("100"), alice.ID)
		}
	}()
	go func() {
		defer wg.Done()
		_ = f.users.Delete(ctx, alice.ID)
	}()
	wg.Wait()

	// whichever side won, no account may reference a missing user
	all, err := f.accounts.List(ctx, "", "")
	require.NoError(t, err)
	for _, a := range all {
		_, err := f.users.GetByID(ctx, a.UserID)
		assert.NoError(t, err, "account %d is orphaned", a.ID)
	}
}

func TestAccountService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)
	for _, seed := range []struct{ name, balance string }{
		{"Charlie", "300"},
		{"alpha", "100"},
		{"Bravo", "300"},
		{"Delta", "150.5"},
	} {
		_, err := f.accounts.Create(ctx, seed.name, dec(seed.balance), alice.ID)
		require.NoError(t, err)
	}

	ids := func(accounts []*domain.Account) []int64 {
		out := make([]int64, len(accounts))
		for i, a := range accounts {
			out[i] = a.ID
		}
		return out
	}

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      []int64
	}{
		{"default is id ascending", "", "", []int64{1, 2, 3, 4}},
		{"id descending", "id", "desc", []int64{4, 3, 2, 1}},
		{"balance descending ties by id", "balance", "desc", []int64{1, 3, 4, 2}},
		{"balance ascending ties by id", "balance", "asc", []int64{2, 4, 1, 3}},
		{"name ascending", "name", "asc", []int64{3, 1, 4, 2}},
		{"case-insensitive parameters", "BALANCE", "DESC", []int64{1, 3, 4, 2}},
		{"unknown field falls back to id", "owner", "desc", []int64{4, 3, 2, 1}},
		{"unknown order falls back to asc", "id", "sideways", []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts, err := f.accounts.List(ctx, tt.sortBy, tt.sortOrder)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(accounts))
		})
	}

	t.Run("balance descending is non-increasing", func(t *testing.T) {
		accounts, err := f.accounts.List(ctx, "balance", "desc")
		require.NoError(t, err)
		for i := 1; i < len(accounts); i++ {
			assert.False(t, accounts[i].Balance.GreaterThan(accounts[i-1].Balance))
		}
	})
}

func TestAccountService_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.GetByID(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, "Account with ID 5 not found", err.Error())
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountService_UpdateName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)
	account, err := f.accounts.Create(ctx, "Savings", dec("120"), alice.ID)
	require.NoError(t, err)

	updated, err := f.accounts.UpdateName(ctx, account.ID, "Rainy day")
	require.NoError(t, err)
	assert.Equal(t, "Rainy day", updated.Name)
	assert.True(t, updated.Balance.Equal(dec("120")))
	assert.Equal(t, "Alice", updated.Owner.Name)

	_, err = f.accounts.UpdateName(ctx, account.ID, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.accounts.UpdateName(ctx, 999, "Ghost")
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, service.EntityAccount, nf.Entity)

	assert.Contains(t, f.emitter.Types(), events.AccountRenamed)
}

func TestAccountService_UpdateBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)
	account, err := f.accounts.Create(ctx, "Savings", dec("100"), alice.ID)
	require.NoError(t, err)

	t.Run("replaces wholesale and may drop below the opening minimum", func(t *testing.T) {
		updated, err := f.accounts.UpdateBalance(ctx, account.ID, dec("0"))
		require.NoError(t, err)
		assert.True(t, updated.Balance.IsZero())
		assert.Equal(t, "Savings", updated.Name)

		updated, err = f.accounts.UpdateBalance(ctx, account.ID, dec("12.34"))
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(dec("12.34")))
	})

	t.Run("negative balance", func(t *testing.T) {
		_, err := f.accounts.UpdateBalance(ctx, account.ID, dec("-0.01"))
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := f.accounts.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(dec("12.34")))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := f.accounts.UpdateBalance(ctx, 404, dec("10"))
		var nf *service.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Account with ID 404 not found", nf.Error())
	})

	var payload events.AccountPayload
	recorded := f.emitter.Events()
	last := recorded[len(recorded)-1]
	require.Equal(t, events.AccountBalanceReplaced, last.Type)
	require.NoError(t, last.UnmarshalPayload(&payload))
	assert.Equal(t, "12.34", payload.Balance)
}

func TestAccountService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)
	account, err := f.accounts.Create(ctx, "Savings", dec("100"), alice.ID)
	require.NoError(t, err)

	require.NoError(t, f.accounts.Delete(ctx, account.ID))

	_, err = f.accounts.GetByID(ctx, account.ID)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)

	err = f.accounts.Delete(ctx, account.ID)
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)

	// the owner survives
	_, err = f.users.GetByID(ctx, alice.ID)
	assert.NoError(t, err)
}

func TestAccountService_ListByUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)
	bob, err := f.users.Register(ctx, "Bob")
	require.NoError(t, err)

	_, err = f.accounts.Create(ctx, "A1", dec("100"), alice.ID)
	require.NoError(t, err)
	_, err = f.accounts.Create(ctx, "B1", dec("100"), bob.ID)
	require.NoError(t, err)
	_, err = f.accounts.Create(ctx, "A2", dec("200"), alice.ID)
	require.NoError(t, err)

	accounts, err := f.accounts.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "A1", accounts[0].Name)
	assert.Equal(t, "A2", accounts[1].Name)

	empty, err := f.users.Register(ctx, "Carol")
	require.NoError(t, err)
	accounts, err = f.accounts.ListByUser(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = f.accounts.ListByUser(ctx, uuid.New())
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestAccountService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	newSvc := func() (*mocks.TestifyMockAccountStore, *mocks.TestifyMockUserStore, service.AccountService) {
		accounts := &mocks.TestifyMockAccountStore{}
		users := &mocks.TestifyMockUserStore{}
		svc := service.NewAccountService(accounts, users, &mocks.MockTransactor{},
			&mocks.MockEventEmitter{}, domain.DefaultMinInitialBalance, nil)
		return accounts, users, svc
	}

	t.Run("list passes parsed sort to the store", func(t *testing.T) {
		accounts, _, svc := newSvc()
		accounts.On("List", mock.Anything, domain.AccountSort{Field: domain.SortByBalance, Order: domain.SortDesc}).
			Return(nil, boom)

		_, err := svc.List(ctx, "balance", "desc")
		assert.ErrorIs(t, err, boom)
		accounts.AssertExpectations(t)
	})

	t.Run("create insert failure", func(t *testing.T) {
		accounts, users, svc := newSvc()
		id := uuid.New()
		users.On("GetForUpdate", mock.Anything, id).Return(&domain.User{ID: id, Name: "Alice"}, nil)
		accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(boom)

		_, err := svc.Create(ctx, "Savings", dec("100"), id)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to create account")
	})

	t.Run("create maps foreign key rejection to user not found", func(t *testing.T) {
		accounts, users, svc := newSvc()
		id := uuid.New()
		users.On("GetForUpdate", mock.Anything, id).Return(&domain.User{ID: id, Name: "Alice"}, nil)
		accounts.On("Create", mock.Anything, mock.Anything).Return(store.ErrUserNotFound)

		_, err := svc.Create(ctx, "Savings", dec("100"), id)
		var nf *service.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("list by user lookup failure is not a not-found", func(t *testing.T) {
		_, users, svc := newSvc()
		id := uuid.New()
		users.On("GetByID", mock.Anything, id).Return(nil, boom)

		_, err := svc.ListByUser(ctx, id)
		assert.ErrorIs(t, err, boom)
		var nf *service.NotFoundError
		assert.False(t, errors.As(err, &nf))
	})
}
