package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/account-service/internal/config"
	"github.com/phrazzld/account-service/internal/events"
	"github.com/phrazzld/account-service/internal/platform/memory"
	"github.com/phrazzld/account-service/internal/platform/postgres"
	"github.com/phrazzld/account-service/internal/platform/redis"
	"github.com/phrazzld/account-service/internal/service"
	"github.com/phrazzld/account-service/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver; redis is nil unless events go to Redis.
	db    *sql.DB
	redis *goredis.Client

	userStore    store.UserStore
	accountStore store.AccountStore
	transactor   store.Transactor

	eventEmitter events.EventEmitter
	dispatcher   *events.Dispatcher

	userService    service.UserService
	accountService service.AccountService
}

// newApplication wires the storage backend, the event emitter and the services
// selected by cfg. Any resources opened before a failure are released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	minBalance, err := cfg.Accounts.MinInitialBalanceDecimal()
	if err != nil {
		return nil, err
	}

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}
	if err := app.setupEvents(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	app.userService = service.NewUserService(
		app.userStore,
		app.accountStore,
		app.transactor,
		app.eventEmitter,
		logger,
	)
	app.accountService = service.NewAccountService(
		app.accountStore,
		app.userStore,
		app.transactor,
		app.eventEmitter,
		minBalance,
		logger,
	)

	logger.Info("Application initialized successfully",
		slog.String("min_initial_balance", minBalance.String()))
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, app.config.Database)
		if err != nil {
			return err
		}
		app.db = db
		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
		app.accountStore = postgres.NewPostgresAccountStore(db, app.logger)
		app.transactor = store.NewSQLTransactor(db)
		app.logger.Info("Database connection established",
			slog.String("database_url", postgres.MaskURL(app.config.Database.URL)))
	case "memory":
		mdb := memory.NewDB()
		app.userStore = memory.NewUserStore(mdb, app.logger)
		app.accountStore = memory.NewAccountStore(mdb, app.logger)
		app.transactor = memory.NewTransactor(mdb)
		app.logger.Warn("Using in-memory storage; data is lost on restart")
	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
	return nil
}

func (app *application) setupEvents(ctx context.Context) error {
	switch app.config.Events.Driver {
	case "none":
		app.eventEmitter = events.NoopEmitter{}
	case "log":
		emitter := events.NewInMemoryEventEmitter(app.logger)
		emitter.RegisterHandler(events.NewLogHandler(app.logger))
		app.eventEmitter = emitter
	case "redis":
		rdb, err := redis.NewClient(ctx, app.config.Events.Redis)
		if err != nil {
			return err
		}
		app.redis = rdb
		app.eventEmitter = redis.NewStreamEmitter(rdb, app.config.Events.Redis.Stream, app.logger)
		app.logger.Info("Publishing events to redis stream",
			slog.String("addr", app.config.Events.Redis.Addr),
			slog.String("stream", app.config.Events.Redis.Stream))
	default:
		return fmt.Errorf("unsupported events driver %q", app.config.Events.Driver)
	}

	if app.config.Events.Workers > 0 && app.config.Events.Driver != "none" {
		app.dispatcher = events.NewDispatcher(app.eventEmitter, events.DispatcherConfig{
			WorkerCount: app.config.Events.Workers,
			QueueSize:   app.config.Events.QueueSize,
		}, app.logger)
		app.eventEmitter = app.dispatcher
	}
	return nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// drain queued events before their sink goes away
	if app.dispatcher != nil {
		app.dispatcher.Close()
		app.dispatcher = nil
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", slog.Any("error", err))
		}
		app.redis = nil
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.Any("error", err))
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}
