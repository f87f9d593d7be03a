// Package main implements the entry point for the account service, which
// manages users and their bank accounts over a REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/phrazzld/account-service/internal/config"
	"github.com/phrazzld/account-service/internal/platform/logger"
	"github.com/phrazzld/account-service/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("account-service: %v", err)
	}
}

// run loads configuration, sets up logging and either executes a migration
// command or serves HTTP until SIGINT/SIGTERM.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("events_driver", cfg.Events.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrateCmd != "" {
		return runMigrations(ctx, cfg, migrateCmd, l)
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}

var errMigrateNeedsPostgres = errors.New("migrations require the postgres database driver")

func runMigrations(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if cfg.Database.Driver != "postgres" {
		return errMigrateNeedsPostgres
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			l.Error("Error closing database connection", slog.Any("error", cerr))
		}
	}()

	l.Info("Running migrations",
		slog.String("command", command),
		slog.String("database_url", postgres.MaskURL(cfg.Database.URL)))

	if err := postgres.Migrate(ctx, db, command, l); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}
