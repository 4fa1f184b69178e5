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

// OrderInput is the writable part of an order. An empty Status and an invalid
// GrandTotal are stored as NULL.
type OrderInput struct {
	UserID            int64
	Status            string
	GrandTotal        decimal.NullDecimal
	ShippingAddressID *int64
	Items             []OrderItemInput
}

type OrderItemInput struct {
	ProductVariantID *int64
	Quantity         *int
	UnitPrice        decimal.NullDecimal
	LineTotal        decimal.NullDecimal
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const orderColumns = `id, user_id, status, grand_total, shipping_address_id, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var status sql.NullString
	var shippingAddressID sql.NullInt64
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&status,
		&order.GrandTotal,
		&shippingAddressID,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = status.String
	if shippingAddressID.Valid {
		order.ShippingAddressID = &shippingAddressID.Int64
	}
	return order, nil
}

func scanOrderItem(row rowScanner) (models.OrderItem, error) {
	var item models.OrderItem
	var variantID, quantity sql.NullInt64
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&variantID,
		&quantity,
		&item.UnitPrice,
		&item.LineTotal,
	)
	if err != nil {
		return item, err
	}
	if variantID.Valid {
		item.ProductVariantID = &variantID.Int64
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		item.Quantity = &q
	}
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID int64, items []OrderItemInput) error {
	for _, in := range items {
		lineTotal := in.LineTotal
		if !lineTotal.Valid {
			lineTotal = models.OrderItem{Quantity: in.Quantity, UnitPrice: in.UnitPrice}.ComputedLineTotal()
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_variant_id, quantity, unit_price, line_total)
			 VALUES ($1, $2, $3, $4, $5)`,
			orderID, nullInt64(in.ProductVariantID), nullInt(in.Quantity), in.UnitPrice, lineTotal)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

func CreateOrder(ctx context.Context, db *sql.DB, in OrderInput) (*models.Order, error) {
	var order *models.Order

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)",
			in.UserID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if !exists {
			return database.ErrUserNotFound
		}

		var orderID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, status, grand_total, shipping_address_id, created_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 RETURNING id`,
			in.UserID, nullString(in.Status), in.GrandTotal, nullInt64(in.ShippingAddressID)).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := insertOrderItems(ctx, tx, orderID, in.Items); err != nil {
			return err
		}

		order, err = getOrder(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("fetch created order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder loads an order with its items in insertion order.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	return getOrder(ctx, db, id)
}

func getOrder(ctx context.Context, q querier, id int64) (*models.Order, error) {
	order, err := scanOrder(q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_variant_id, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := q.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}

// UpdateOrder overwrites the order header. Items are replaced only when
// in.Items is non-nil; an empty non-nil slice clears them.
func UpdateOrder(ctx context.Context, db *sql.DB, id int64, in OrderInput) (*models.Order, error) {
	var order *models.Order

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE orders
			 SET user_id = $1,
			     status = $2,
			     grand_total = $3,
			     shipping_address_id = $4
			 WHERE id = $5`,
			in.UserID, nullString(in.Status), in.GrandTotal, nullInt64(in.ShippingAddressID), id)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return database.ErrOrderNotFound
		}

		if in.Items != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
				return fmt.Errorf("clear order items: %w", err)
			}
			if err := insertOrderItems(ctx, tx, id, in.Items); err != nil {
				return err
			}
		}

		order, err = getOrder(ctx, tx, id)
		return err
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

// DeleteOrder removes an order; its items go with it via ON DELETE CASCADE.
func DeleteOrder(ctx context.Context, db *sql.DB, id int64) error {
	return deleteByID(ctx, db, "orders", id, database.ErrOrderNotFound)
}

// ListOrders returns order headers without items, newest first.
func ListOrders(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	return newOffsetPage(orders, total, page, pageSize), nil
}

func ListOrdersCursor(ctx context.Context, db *sql.DB, userID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, userID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
