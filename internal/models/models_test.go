package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputedLineTotal(t *testing.T) {
	qty := 3
	item := OrderItem{Quantity: &qty, UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("19.99"))}

	got := item.ComputedLineTotal()
	assert.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString("59.97")))
}

func TestComputedLineTotal_MissingFields(t *testing.T) {
	qty := 2
	assert.False(t, OrderItem{Quantity: &qty}.ComputedLineTotal().Valid)
	assert.False(t, OrderItem{UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(5))}.ComputedLineTotal().Valid)
}

func TestDisplayStatus(t *testing.T) {
	assert.Equal(t, "shipped", DisplayStatus("shipped"))
	assert.Equal(t, "shipped", DisplayStatus(" shipped \n"))
	assert.Equal(t, StatusUnavailable, DisplayStatus(""))
	assert.Equal(t, StatusUnavailable, DisplayStatus("   "))
}
