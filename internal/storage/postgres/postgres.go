// Package postgres stores competitors and schedules in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// Config holds PostgreSQL connection settings
type Config struct {
	// DSN is a lib/pq connection string or postgres:// URL
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConfig returns sensible defaults for PostgreSQL configuration
func DefaultConfig() Config {
	return Config{
		DSN:             "postgres://localhost:5432/swiss?sslmode=disable",
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

// Connect opens a pooled handle and verifies it within cfg.ConnectTimeout
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", cfg.ConnectTimeout, err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tournament_players (
	seq           BIGSERIAL PRIMARY KEY,
	tournament_id TEXT NOT NULL,
	player_id     TEXT NOT NULL,
	username      TEXT NOT NULL,
	college       TEXT NOT NULL DEFAULT '',
	gender        TEXT NOT NULL DEFAULT '',
	UNIQUE (tournament_id, player_id)
);

CREATE TABLE IF NOT EXISTS tournament_pairings (
	tournament_id TEXT PRIMARY KEY,
	total_rounds  INTEGER NOT NULL,
	rounds        JSONB NOT NULL,
	generated_at  TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
