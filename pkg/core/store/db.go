package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

const schema = `
CREATE TABLE IF NOT EXISTS valuation_snapshots (
	id         UUID PRIMARY KEY,
	company    TEXT NOT NULL,
	data       JSONB NOT NULL,
	html       TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS valuation_snapshots_created_idx ON valuation_snapshots (created_at DESC);
`

// InitDB initializes the connection pool from dbURL and creates the
// snapshot table if needed. Later calls return the first call's error.
func InitDB(ctx context.Context, dbURL string) error {
	var err error
	once.Do(func() {
		if dbURL == "" {
			err = fmt.Errorf("database url not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return
		}
		if _, execErr := pool.Exec(ctx, schema); execErr != nil {
			err = fmt.Errorf("failed to apply schema: %w", execErr)
			pool.Close()
			pool = nil
		}
	})
	return err
}

// GetPool returns the database connection pool, nil before InitDB succeeds.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}
