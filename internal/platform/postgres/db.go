package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/account-service/internal/config"
)

// Open connects to PostgreSQL through the pgx stdlib driver, configures the
// pool and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// MaskURL hides the password in a database URL for safe logging.
func MaskURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "****")
	}
	return parsed.String()
}
