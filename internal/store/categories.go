package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/gymwear-api/internal/database"
	"github.com/safar/gymwear-api/internal/models"
	"github.com/safar/gymwear-api/internal/slug"
)

type CategoryInput struct {
	ParentID    *int64
	Name        string
	Slug        string
	Description string
}

const categoryColumns = `id, parent_id, name, slug, description`

func scanCategory(row rowScanner) (*models.Category, error) {
	c := &models.Category{}
	var parentID sql.NullInt64
	if err := row.Scan(&c.ID, &parentID, &c.Name, &c.Slug, &c.Description); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	return c, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func slugOrName(s, name string) string {
	if s != "" {
		return slug.Generate(s)
	}
	return slug.Generate(name)
}

func CreateCategory(ctx context.Context, db *sql.DB, in CategoryInput) (*models.Category, error) {
	query := `
		INSERT INTO categories (parent_id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	c, err := scanCategory(db.QueryRowContext(ctx, query,
		nullInt64(in.ParentID), in.Name, slugOrName(in.Slug, in.Name), in.Description))
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return c, nil
}

func GetCategory(ctx context.Context, db *sql.DB, id int64) (*models.Category, error) {
	c, err := scanCategory(db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return c, nil
}

// UpdateCategory overwrites name, slug and description. The parent is only
// changed when in.ParentID is set.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, in CategoryInput) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1,
		    slug = $2,
		    description = $3,
		    parent_id = COALESCE($4, parent_id)
		WHERE id = $5
		RETURNING ` + categoryColumns

	c, err := scanCategory(db.QueryRowContext(ctx, query,
		in.Name, slugOrName(in.Slug, in.Name), in.Description, nullInt64(in.ParentID), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return c, nil
}

func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	return deleteByID(ctx, db, "categories", id, database.ErrCategoryNotFound)
}

func ListCategories(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY name, id
		LIMIT $1 OFFSET $2`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(categories, total, page, pageSize), nil
}
