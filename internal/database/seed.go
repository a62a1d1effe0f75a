package database

import (
	"context"
	"fmt"

	"github.com/soundstore/soundstore/pkg/builder"
)

type seedCategory struct {
	id          int64
	name        string
	description string
}

type seedSubCategory struct {
	id         int64
	name       string
	categoryID int64
}

// The baseline catalog. IDs are fixed so subcategories can reference
// their parents and reseeding stays idempotent.
var (
	seedCategories = []seedCategory{
		{1, "LOA MARSHALL", "Loa Marshall chính hãng"},
		{2, "TAI NGHE MARSHALL", "Tai nghe Marshall chính hãng"},
		{3, "PHỤ KIỆN LIFESTYLE", "Phụ kiện lifestyle Marshall"},
	}
	seedSubCategories = []seedSubCategory{
		{1, "LOA DI ĐỘNG", 1},
		{2, "LOA NGHE TRONG NHÀ", 1},
		{3, "LIMITED EDITION", 1},
		{4, "TRUE WIRELESS", 2},
		{5, "ON-EAR", 2},
		{6, "OVER-EAR", 2},
		{7, "IN-EAR", 2},
	}
)

// Seed inserts the baseline category catalog. Existing rows are left
// alone, and the id sequences are advanced past the fixed ids.
func Seed(ctx context.Context, db *builder.DB) error {
	rt := db.Runtime()

	for _, c := range seedCategories {
		_, err := rt.Exec(ctx,
			`INSERT INTO categories (id, name, description, created_at, updated_at)
			 VALUES ($1, $2, $3, now(), now())
			 ON CONFLICT (id) DO NOTHING`,
			c.id, c.name, c.description)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.name, err)
		}
	}

	for _, s := range seedSubCategories {
		_, err := rt.Exec(ctx,
			`INSERT INTO sub_categories (id, name, category_id, created_at, updated_at)
			 VALUES ($1, $2, $3, now(), now())
			 ON CONFLICT (id) DO NOTHING`,
			s.id, s.name, s.categoryID)
		if err != nil {
			return fmt.Errorf("failed to seed subcategory %s: %w", s.name, err)
		}
	}

	for _, table := range []string{"categories", "sub_categories"} {
		_, err := rt.Exec(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))`,
			table, table))
		if err != nil {
			return fmt.Errorf("failed to advance %s id sequence: %w", table, err)
		}
	}

	return nil
}
