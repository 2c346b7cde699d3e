// Package postgres is the optional durable backend. It implements the
// same menu/table/order interfaces as memstore; the order/table
// cascades run in a single transaction with the touched rows locked.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koyo-dev/tableside/db"
	"github.com/koyo-dev/tableside/internal/domain/menu"
	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

// NewPool creates a pgxpool.Pool for the given connection URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// Store bundles the Postgres-backed views over one pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store using the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Menu returns the catalog read view.
func (s *Store) Menu() menu.Repository { return menuRepo{pool: s.pool} }

// Tables returns the table registry view.
func (s *Store) Tables() table.Registry { return tableRepo{pool: s.pool} }

// Orders returns the order store view.
func (s *Store) Orders() order.Store { return orderRepo{pool: s.pool} }
