package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koyo-dev/tableside/internal/domain/menu"
)

var _ menu.Repository = menuRepo{}

type menuRepo struct {
	pool *pgxpool.Pool
}

const menuColumns = `id, name_ja, name_en, name_zh,
       description_ja, description_en, description_zh,
       price, category, sub_category, allergens, spicy_level,
       short_name, image_url, available`

// List returns the full catalog in seeded declaration order.
func (r menuRepo) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY position, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetByIDs resolves a batch of item IDs; unknown IDs are absent from
// the result.
func (r menuRepo) GetByIDs(ctx context.Context, ids []string) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]menu.Item, error) {
	var items []menu.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate menu items")
	}
	return items, nil
}

func scanItem(row pgx.Row) (menu.Item, error) {
	var (
		it           menu.Item
		allergensRaw []byte
	)
	err := row.Scan(
		&it.ID, &it.NameJA, &it.NameEN, &it.NameZH,
		&it.DescriptionJA, &it.DescriptionEN, &it.DescriptionZH,
		&it.Price, &it.Category, &it.SubCategory, &allergensRaw, &it.SpicyLevel,
		&it.ShortName, &it.ImageURL, &it.Available,
	)
	if err != nil {
		return menu.Item{}, errors.Wrap(err, "scan menu item")
	}
	if err := json.Unmarshal(allergensRaw, &it.Allergens); err != nil {
		return menu.Item{}, errors.Wrapf(err, "decode allergens for %s", it.ID)
	}
	return it, nil
}
