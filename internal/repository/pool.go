package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeboard/internal/providers"
	"codeboard/internal/structures"
)

// NewPgPool creates and pings the shared PostgreSQL connection pool.
func NewPgPool(conf *structures.Config, logger providers.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(conf.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if conf.Database.MaxConns > 0 {
		poolCfg.MaxConns = conf.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := EnsureSchema(context.Background(), pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger.Infof(providers.TypeStore, "Database pool ready (maxConns=%d)", poolCfg.MaxConns)
	return pool, nil
}

// NewPgConnection adapts the concrete pool to the repository interface.
func NewPgConnection(pool *pgxpool.Pool) PgConnection {
	return pool
}
