package pgrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/logger"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS catalog_variants (
	variant_id     TEXT PRIMARY KEY,
	family_name    TEXT,
	size_label     TEXT,
	unit_price     BIGINT,
	stock          INTEGER,
	category_label TEXT,
	image_ref      TEXT
)`

const listVariantsSQL = `SELECT variant_id, family_name, size_label, unit_price, stock, category_label, image_ref FROM catalog_variants ORDER BY family_name ASC, unit_price ASC`

type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository serves variant rows from the catalog_variants table.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx, schemaSQL)
	logger.DBQuery("ensure catalog_variants", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

func (r *CatalogRepository) FetchVariantRows(ctx context.Context) ([]domain.VariantRow, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, listVariantsSQL)
	defer func() { logger.DBQuery("list catalog_variants", time.Since(start), err) }()
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog variants: %w", err)
	}
	defer rows.Close()

	result := make([]domain.VariantRow, 0)
	for rows.Next() {
		var (
			id                            string
			family, size, category, image sql.NullString
			price                         sql.NullInt64
			stock                         sql.NullInt32
		)
		if err = rows.Scan(&id, &family, &size, &price, &stock, &category, &image); err != nil {
			return nil, fmt.Errorf("failed to scan catalog variant: %w", err)
		}

		row := domain.VariantRow{
			GroupKey:      family.String,
			SizeLabel:     size.String,
			VariantID:     id,
			UnitPrice:     price.Int64,
			CategoryLabel: category.String,
			ImageRef:      image.String,
		}
		if stock.Valid && stock.Int32 > 0 {
			row.Stock = int(stock.Int32)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog variants: %w", err)
	}
	return result, nil
}
