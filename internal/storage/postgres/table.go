package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koyo-dev/tableside/internal/domain/table"
)

var _ table.Registry = tableRepo{}

type tableRepo struct {
	pool *pgxpool.Pool
}

// List returns all tables ordered by number.
func (r tableRepo) List(ctx context.Context) ([]table.Table, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT number, status, current_order_id, capacity FROM dining_tables ORDER BY number`)
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	defer rows.Close()

	var tables []table.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate tables")
	}
	return tables, nil
}

// GetByNumber returns the table with the given number, or table.ErrNotFound.
func (r tableRepo) GetByNumber(ctx context.Context, number int) (*table.Table, error) {
	t, err := scanTable(r.pool.QueryRow(ctx,
		`SELECT number, status, current_order_id, capacity FROM dining_tables WHERE number = $1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get table %d", number)
	}
	return t, nil
}

// SetStatus is the operator override; the order link is left untouched.
func (r tableRepo) SetStatus(ctx context.Context, number int, status table.Status) (*table.Table, error) {
	t, err := scanTable(r.pool.QueryRow(ctx,
		`UPDATE dining_tables SET status = $1 WHERE number = $2
		 RETURNING number, status, current_order_id, capacity`, status, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, errors.Wrapf(err, "set status for table %d", number)
	}
	return t, nil
}

func scanTable(row pgx.Row) (*table.Table, error) {
	var (
		t   table.Table
		cur *string
	)
	if err := row.Scan(&t.Number, &t.Status, &cur, &t.Capacity); err != nil {
		return nil, err
	}
	if cur != nil {
		t.CurrentOrderID = *cur
	}
	return &t, nil
}
