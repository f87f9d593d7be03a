package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/events"
	"github.com/phrazzld/account-service/internal/mocks"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/service"
	"github.com/phrazzld/account-service/internal/store"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and version 0", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, int64(0), user.Version)

		stored, err := f.users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)

		assert.Equal(t, []string{events.UserRegistered}, f.emitter.Types())
		var payload events.UserPayload
		require.NoError(t, f.emitter.Events()[0].UnmarshalPayload(&payload))
		assert.Equal(t, user.ID, payload.UserID)
		assert.Equal(t, "Alice", payload.Name)
	})

	invalid := []struct {
		name    string
		input   string
		message string
	}{
		{"blank", "   ", "Name must not be blank"},
		{"empty", "", "Name must not be blank"},
		{"too long", strings.Repeat("a", 51), "Name must not exceed 50 characters"},
	}
	for _, tt := range invalid {
		t.Run("rejects "+tt.name+" name", func(t *testing.T) {
			f := newFixture(t)

			user, err := f.users.Register(ctx, tt.input)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, map[string]string{"name": tt.message}, domain.FieldErrors(err))

			users, err := f.users.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, users)
			assert.Empty(t, f.emitter.Events())
		})
	}

	t.Run("accepts 50 multi-byte characters", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.users.Register(ctx, strings.Repeat("ż", 50))
		assert.NoError(t, err)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := f.users.Register(ctx, name)
		require.NoError(t, err)
	}

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Carol", users[2].Name)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	_, err := f.users.GetByID(context.Background(), id)
	require.Error(t, err)

	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, service.EntityUser, nf.Entity)
	assert.Equal(t, "User with ID "+id.String()+" not found", err.Error())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserService_UpdateName(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and bumps version", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)

		updated, err := f.users.UpdateName(ctx, user.ID, "Alicia")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)
		assert.Equal(t, int64(1), updated.Version)

		updated, err = f.users.UpdateName(ctx, user.ID, "Ali")
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)

		assert.Equal(t,
			[]string{events.UserRegistered, events.UserRenamed, events.UserRenamed},
			f.emitter.Types())
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.users.UpdateName(ctx, uuid.New(), "Alicia")
		var nf *service.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("invalid name leaves user untouched", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)

		_, err = f.users.UpdateName(ctx, user.ID, "")
		assert.ErrorIs(t, err, domain.ErrValidation)

		stored, err := f.users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", stored.Name)
		assert.Equal(t, int64(0), stored.Version)
	})

	t.Run("concurrent rename surfaces a conflict", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		accounts := &mocks.TestifyMockAccountStore{}
		emitter := &mocks.MockEventEmitter{}
		svc := service.NewUserService(users, accounts, &mocks.MockTransactor{}, emitter, nil)

		id := uuid.New()
		users.On("GetByID", mock.Anything, id).
			Return(&domain.User{ID: id, Name: "Alice", Version: 3}, nil)
		users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User"), int64(3)).
			Return(store.ErrVersionConflict)

		_, err := svc.UpdateName(ctx, id, "Alicia")
		assert.ErrorIs(t, err, store.ErrVersionConflict)
		assert.Empty(t, emitter.Events())
		users.AssertExpectations(t)
	})
}

func TestUserService_UpdateNameAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)

	updated, err := f.users.UpdateNameAt(ctx, user.ID, "Alicia", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)

	_, err = f.users.UpdateNameAt(ctx, user.ID, "Stale", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrVersionConflict)
	assert.True(t, store.IsConflictError(err))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.Name)
	assert.Equal(t, int64(1), stored.Version)

	_, err = f.users.UpdateNameAt(ctx, uuid.New(), "Ghost", 0)
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to accounts", func(t *testing.T) {
		f := newFixture(t)
		alice, err := f.users.Register(ctx, "Alice")
		require.NoError(t, err)
		bob, err := f.users.Register(ctx, "Bob")
		require.NoError(t, err)

		a1, err := f.accounts.Create(ctx, "Savings", decimal.NewFromInt(100), alice.ID)
		require.NoError(t, err)
		a2, err := f.accounts.Create(ctx, "Checking", decimal.NewFromInt(250), alice.ID)
		require.NoError(t, err)
		kept, err := f.accounts.Create(ctx, "Bob's", decimal.NewFromInt(100), bob.ID)
		require.NoError(t, err)

		require.NoError(t, f.users.Delete(ctx, alice.ID))

		for _, id := range []int64{a1.ID, a2.ID} {
			_, err := f.accounts.GetByID(ctx, id)
			var nf *service.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, service.EntityAccount, nf.Entity)
		}

		_, err = f.accounts.ListByUser(ctx, alice.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = f.accounts.GetByID(ctx, kept.ID)
		assert.NoError(t, err)

		all, err := f.accounts.List(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, kept.ID, all[0].ID)

		recorded := f.emitter.Events()
		last := recorded[len(recorded)-1]
		assert.Equal(t, events.UserDeleted, last.Type)
		var payload events.UserDeletedPayload
		require.NoError(t, last.UnmarshalPayload(&payload))
		assert.Equal(t, int64(2), payload.AccountsDeleted)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)

		err := f.users.Delete(ctx, uuid.New())
		var nf *service.NotFoundError
		assert.ErrorAs(t, err, &nf)
		assert.Empty(t, f.emitter.Events())
	})

	t.Run("store failure is wrapped and nothing is emitted", func(t *testing.T) {
		users := &mocks.TestifyMockUserStore{}
		accounts := &mocks.TestifyMockAccountStore{}
		tx := &mocks.MockTransactor{}
		emitter := &mocks.MockEventEmitter{}
		svc := service.NewUserService(users, accounts, tx, emitter, nil)

		id := uuid.New()
		users.On("GetForUpdate", mock.Anything, id).Return(&domain.User{ID: id, Name: "Alice"}, nil)
		accounts.On("DeleteByUser", mock.Anything, id).Return(int64(2), nil)
		users.On("Delete", mock.Anything, id).Return(errors.New("connection reset"))

		err := svc.Delete(ctx, id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete user")
		assert.Equal(t, 1, tx.Calls)
		assert.Empty(t, emitter.Events())
	})
}

func TestUserService_EmitFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.emitter.EmitEventFn = func(context.Context, *events.Event) error {
		return errors.New("broker unavailable")
	}

	user, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)

	_, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	logger.AssertLogContains(t, f.logs, "failed to emit event")
}

func TestUserService_UsesRequestLogger(t *testing.T) {
	f := newFixture(t)
	reqLogs, reqLog := logger.NewTestLogger(t)
	ctx := logger.WithLogger(context.Background(), reqLog.With("trace_id", "trace-123"))

	_, err := f.users.Register(ctx, "Alice")
	require.NoError(t, err)

	logger.AssertLogContains(t, reqLogs, "user registered")
	logger.AssertLogContains(t, reqLogs, "trace-123")
}
