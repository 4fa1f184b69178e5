// Package receipt turns an order snapshot into a printable PDF receipt.
//
// Layout and rendering are split: Build produces a Receipt value holding every
// string that ends up on the page, and Generator renders that value with fpdf.
package receipt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/safar/gymwear-api/internal/models"
)

const (
	ContentType = "application/pdf"

	notAvailable  = "N/A"
	zeroAmount    = "0.00"
	zeroQuantity  = "0"
	noItemsText   = "No items in this order"
	currencyMark  = "$"
	moneyDecimals = 2
)

var ErrNilOrder = errors.New("receipt: nil order")

// Receipt is the fully resolved content of one receipt page.
type Receipt struct {
	OrderID   int64
	Title     string
	Summary   []SummaryLine
	Header    [3]string
	Rows      [][3]string
	Empty     bool
	EmptyText string
	Footer    string
	Date      time.Time
}

type SummaryLine struct {
	Text string
	Bold bool
}

// Build resolves the receipt content for order. Missing fields fall back to
// placeholder text; only a nil order is an error.
func Build(order *models.Order, shop string) (*Receipt, error) {
	if order == nil {
		return nil, ErrNilOrder
	}

	status := models.DisplayStatus(order.Status)

	total := zeroAmount
	if order.GrandTotal.Valid {
		total = order.GrandTotal.Decimal.StringFixed(moneyDecimals)
	}

	r := &Receipt{
		OrderID: order.ID,
		Title:   "Purchase Receipt - " + shop,
		Summary: []SummaryLine{
			{Text: fmt.Sprintf("Order ID: %d", order.ID), Bold: true},
			{Text: "Status: " + status},
			{Text: "Total: " + currencyMark + total, Bold: true},
		},
		Header:    [3]string{"Product ID", "Quantity", "Unit Price"},
		Rows:      make([][3]string, 0, len(order.Items)),
		EmptyText: noItemsText,
		Footer:    "Thank you for your purchase - " + shop,
		Date:      order.CreatedAt,
	}

	for _, item := range order.Items {
		r.Rows = append(r.Rows, itemRow(item))
	}
	r.Empty = len(r.Rows) == 0

	return r, nil
}

func itemRow(item models.OrderItem) [3]string {
	variant := notAvailable
	if item.ProductVariantID != nil {
		variant = strconv.FormatInt(*item.ProductVariantID, 10)
	}

	quantity := zeroQuantity
	if item.Quantity != nil {
		quantity = strconv.Itoa(*item.Quantity)
	}

	price := currencyMark + zeroAmount
	if item.UnitPrice.Valid {
		price = currencyMark + item.UnitPrice.Decimal.StringFixed(moneyDecimals)
	}

	return [3]string{variant, quantity, price}
}

// Filename is the attachment name used when serving a receipt.
func Filename(orderID int64) string {
	return fmt.Sprintf("receipt_order_%d.pdf", orderID)
}
