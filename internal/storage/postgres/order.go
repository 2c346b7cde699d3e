package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
)

var _ order.Store = orderRepo{}

type orderRepo struct {
	pool *pgxpool.Pool
}

// Create inserts the order and links its table inside one transaction.
// The table row is locked first so concurrent creations for the same
// table serialize and the last commit wins the link.
func (r orderRepo) Create(ctx context.Context, o *order.Order) error {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return errors.Wrap(err, "marshal order lines")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var number int
	err = tx.QueryRow(ctx,
		`SELECT number FROM dining_tables WHERE number = $1 FOR UPDATE`, o.TableNumber,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return table.ErrNotFound
		}
		return errors.Wrapf(err, "lock table %d", o.TableNumber)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, table_number, lines, status, total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.TableNumber, linesJSON, o.Status, o.Total, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "insert order %s", o.ID)
	}

	_, err = tx.Exec(ctx,
		`UPDATE dining_tables SET status = $1, current_order_id = $2 WHERE number = $3`,
		table.StatusOccupied, o.ID, o.TableNumber,
	)
	if err != nil {
		return errors.Wrapf(err, "link table %d", o.TableNumber)
	}

	return errors.Wrap(tx.Commit(ctx), "commit")
}

// SetStatus locks the order row, applies the transition check, and
// unlinks the table in the same transaction when the order completes
// while still linked.
func (r orderRepo) SetStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	o, err := scanOrder(tx.QueryRow(ctx,
		`SELECT id, table_number, lines, status, total, created_at
		 FROM orders WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "lock order %s", id)
	}

	if err := order.ValidateTransition(o.Status, status); err != nil {
		return nil, err
	}
	if o.Status == status {
		// Idempotent re-assertion: nothing to write.
		if err := tx.Commit(ctx); err != nil {
			return nil, errors.Wrap(err, "commit")
		}
		return o, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id); err != nil {
		return nil, errors.Wrapf(err, "update order %s", id)
	}
	o.Status = status

	if status.Terminal() {
		_, err = tx.Exec(ctx,
			`UPDATE dining_tables SET status = $1, current_order_id = NULL
			 WHERE number = $2 AND current_order_id = $3`,
			table.StatusAvailable, o.TableNumber, id,
		)
		if err != nil {
			return nil, errors.Wrapf(err, "unlink table %d", o.TableNumber)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return o, nil
}

// GetByID returns the order with the given id, or order.ErrNotFound.
func (r orderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT id, table_number, lines, status, total, created_at FROM orders WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %s", id)
	}
	return o, nil
}

// List returns matching orders newest first.
func (r orderRepo) List(ctx context.Context, filter order.ListFilter) ([]order.Order, error) {
	query := `SELECT id, table_number, lines, status, total, created_at FROM orders`
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TableNumber != nil {
		args = append(args, *filter.TableNumber)
		conds = append(conds, fmt.Sprintf("table_number = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o        order.Order
		linesRaw []byte
	)
	if err := row.Scan(&o.ID, &o.TableNumber, &linesRaw, &o.Status, &o.Total, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(linesRaw, &o.Lines); err != nil {
		return nil, errors.Wrapf(err, "decode lines for %s", o.ID)
	}
	return &o, nil
}
