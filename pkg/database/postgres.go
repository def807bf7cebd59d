// Package database provides database connection utilities.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig bounds the connection pool. Zero values keep pgxpool defaults.
type PoolConfig struct {
	MinConns int32
	MaxConns int32
}

// NewPostgresPool creates a new PostgreSQL connection pool and verifies
// connectivity with a ping before returning it.
func NewPostgresPool(ctx context.Context, databaseURL string, poolCfg *PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if poolCfg != nil {
		if poolCfg.MinConns > 0 {
			config.MinConns = poolCfg.MinConns
		}

		if poolCfg.MaxConns > 0 {
			config.MaxConns = poolCfg.MaxConns
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to PostgreSQL",
		"min_conns", config.MinConns, "max_conns", config.MaxConns)

	return pool, nil
}
