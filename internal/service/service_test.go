package service_test

import (
	"testing"

	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/mocks"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/platform/memory"
	"github.com/phrazzld/account-service/internal/service"
	"github.com/phrazzld/account-service/internal/store"
)

// fixture wires both services to a fresh in-memory backend.
type fixture struct {
	users    service.UserService
	accounts service.AccountService
	emitter  *mocks.MockEventEmitter
	logs     *logger.TestLogBuffer

	userStore    store.UserStore
	accountStore store.AccountStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logs, log := logger.NewTestLogger(t)
	db := memory.NewDB()
	userStore := memory.NewUserStore(db, log)
	accountStore := memory.NewAccountStore(db, log)
	tx := memory.NewTransactor(db)
	emitter := &mocks.MockEventEmitter{}

	return &fixture{
		users:        service.NewUserService(userStore, accountStore, tx, emitter, log),
		accounts:     service.NewAccountService(accountStore, userStore, tx, emitter, domain.DefaultMinInitialBalance, log),
		emitter:      emitter,
		logs:         logs,
		userStore:    userStore,
		accountStore: accountStore,
	}
}
