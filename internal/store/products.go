package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/safar/gymwear-api/internal/database"
	"github.com/safar/gymwear-api/internal/models"
)

type ProductInput struct {
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	BasePrice   decimal.Decimal
	Active      bool
}

const productColumns = `id, category_id, name, slug, description, base_price, active, created_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.BasePrice,
		&p.Active,
		&p.CreatedAt,
	)
	return p, err
}

func CreateProduct(ctx context.Context, db *sql.DB, in ProductInput) (*models.Product, error) {
	query := `
		INSERT INTO products (category_id, name, slug, description, base_price, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + productColumns

	p, err := scanProduct(db.QueryRowContext(ctx, query,
		in.CategoryID, in.Name, slugOrName(in.Slug, in.Name), in.Description, in.BasePrice, in.Active))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return p, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// UpdateProduct overwrites every field. A zero CategoryID keeps the current
// category.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, in ProductInput) (*models.Product, error) {
	var categoryID sql.NullInt64
	if in.CategoryID != 0 {
		categoryID = sql.NullInt64{Int64: in.CategoryID, Valid: true}
	}

	query := `
		UPDATE products
		SET category_id = COALESCE($1, category_id),
		    name = $2,
		    slug = $3,
		    description = $4,
		    base_price = $5,
		    active = $6
		WHERE id = $7
		RETURNING ` + productColumns

	p, err := scanProduct(db.QueryRowContext(ctx, query,
		categoryID, in.Name, slugOrName(in.Slug, in.Name), in.Description, in.BasePrice, in.Active, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return p, nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	return deleteByID(ctx, db, "products", id, database.ErrProductNotFound)
}

// ProductFilter narrows ListProducts. Zero values mean "any".
type ProductFilter struct {
	CategoryID int64
	ActiveOnly bool
}

func ListProducts(ctx context.Context, db *sql.DB, filter ProductFilter, page, pageSize int) (*OffsetPage, error) {
	where := `WHERE ($1::bigint = 0 OR category_id = $1::bigint) AND (NOT $2::boolean OR active)`

	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where,
		filter.CategoryID, filter.ActiveOnly).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	rows, err := db.QueryContext(ctx, query, filter.CategoryID, filter.ActiveOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(products, total, page, pageSize), nil
}
