package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID          int64  `json:"id"`
	ParentID    *int64 `json:"parent_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Order is the aggregate read by the receipt generator and the email
// notifier. Status is empty and GrandTotal invalid when the row holds NULL.
type Order struct {
	ID                int64               `json:"id"`
	UserID            int64               `json:"user_id"`
	Status            string              `json:"status"`
	GrandTotal        decimal.NullDecimal `json:"grand_total"`
	ShippingAddressID *int64              `json:"shipping_address_id"`
	CreatedAt         time.Time           `json:"created_at"`
	Items             []OrderItem         `json:"items"`
}

type OrderItem struct {
	ID               int64               `json:"id"`
	OrderID          int64               `json:"order_id"`
	ProductVariantID *int64              `json:"product_variant_id"`
	Quantity         *int                `json:"quantity"`
	UnitPrice        decimal.NullDecimal `json:"unit_price"`
	LineTotal        decimal.NullDecimal `json:"line_total"`
}

// StatusUnavailable stands in for an order status that is NULL or blank.
const StatusUnavailable = "N/A"

// DisplayStatus is the status as shown to customers on receipts and emails.
func DisplayStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return StatusUnavailable
	}
	return status
}

// ComputedLineTotal returns quantity * unit_price when both are present.
func (i OrderItem) ComputedLineTotal() decimal.NullDecimal {
	if i.Quantity == nil || !i.UnitPrice.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(i.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(*i.Quantity))))
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)
