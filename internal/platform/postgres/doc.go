// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. It also owns the embedded goose migrations and the
// mapping from PostgreSQL error codes to store errors.
package postgres
