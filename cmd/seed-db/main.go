// Command seed-db provisions a Postgres database with the embedded
// menu catalog and the floor layout. Idempotent: rows are upserted, so
// it is safe to run on every deploy.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/koyo-dev/tableside/internal/catalog"
	"github.com/koyo-dev/tableside/internal/storage/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedMenu(ctx, pool) })
	g.Go(func() error { return seedTables(ctx, pool) })
	return g.Wait()
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool) error {
	items, err := catalog.Load()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	for i, it := range items {
		allergens, err := json.Marshal(it.Allergens)
		if err != nil {
			return errors.Wrapf(err, "encode allergens for %s", it.ID)
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO menu_items (
				id, name_ja, name_en, name_zh,
				description_ja, description_en, description_zh,
				price, category, sub_category, allergens, spicy_level,
				short_name, image_url, available, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO UPDATE SET
				name_ja = EXCLUDED.name_ja,
				name_en = EXCLUDED.name_en,
				name_zh = EXCLUDED.name_zh,
				description_ja = EXCLUDED.description_ja,
				description_en = EXCLUDED.description_en,
				description_zh = EXCLUDED.description_zh,
				price = EXCLUDED.price,
				category = EXCLUDED.category,
				sub_category = EXCLUDED.sub_category,
				allergens = EXCLUDED.allergens,
				spicy_level = EXCLUDED.spicy_level,
				short_name = EXCLUDED.short_name,
				image_url = EXCLUDED.image_url,
				available = EXCLUDED.available,
				position = EXCLUDED.position`,
			it.ID, it.NameJA, it.NameEN, it.NameZH,
			it.DescriptionJA, it.DescriptionEN, it.DescriptionZH,
			it.Price, it.Category, it.SubCategory, allergens, it.SpicyLevel,
			it.ShortName, it.ImageURL, it.Available, i,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert menu item %s", it.ID)
		}
	}

	return nil
}

// seedTables inserts the floor layout. Existing tables only have their
// capacity refreshed so live occupancy state survives a re-seed.
func seedTables(ctx context.Context, pool *pgxpool.Pool) error {
	tables := catalog.Tables()

	slog.Info("upserting tables", slog.Int("count", len(tables)))

	for _, t := range tables {
		_, err := pool.Exec(ctx, `
			INSERT INTO dining_tables (number, status, capacity)
			VALUES ($1, $2, $3)
			ON CONFLICT (number) DO UPDATE SET capacity = EXCLUDED.capacity`,
			t.Number, t.Status, t.Capacity,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert table %d", t.Number)
		}
	}

	return nil
}
