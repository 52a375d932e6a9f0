package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

func TestResolveCoupon(t *testing.T) {
	subtotal := decimal.RequireFromString("87.50")
	fee := decimal.NewFromInt(5)

	tests := []struct {
		code    string
		want    string
		invalid bool
	}{
		{"PIZZA10", "8.75", false},
		{"pizza10", "8.75", false},
		{"  Pizza10 ", "8.75", false},
		{"ENTREGA", "5.00", false},
		{"entrega", "5.00", false},
		{"PIZZA20", "0.00", true},
		{"", "0.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ResolveCoupon(tt.code, subtotal, fee)
			if tt.invalid {
				assert.ErrorIs(t, err, model.ErrInvalidCoupon)
			} else {
				assert.NoError(t, err)
			}
			money(t, tt.want, got)
		})
	}
}

func TestNewQuote_FreeDelivery(t *testing.T) {
	lines := []model.CartLine{
		{ID: "a", Quantity: 2, CalculatedPrice: decimal.NewFromInt(50)},
	}

	q, err := NewQuote(lines, decimal.NewFromInt(5), "entrega")
	require.NoError(t, err)

	money(t, "100.00", q.Subtotal)
	money(t, "5.00", q.Discount)
	money(t, "100.00", q.Total)
	assert.Equal(t, CouponFreeDelivery, q.CouponCode)
}

func TestNewQuote_NoCoupon(t *testing.T) {
	lines := []model.CartLine{{ID: "a", Quantity: 1, CalculatedPrice: decimal.NewFromInt(40)}}

	q, err := NewQuote(lines, decimal.NewFromInt(5), "")
	require.NoError(t, err)
	money(t, "45.00", q.Total)
	assert.Empty(t, q.CouponCode)
}

func TestNewQuote_InvalidCouponKeepsFullPrice(t *testing.T) {
	lines := []model.CartLine{{ID: "a", Quantity: 1, CalculatedPrice: decimal.NewFromInt(40)}}

	q, err := NewQuote(lines, decimal.NewFromInt(5), "FREEPIZZA")
	assert.ErrorIs(t, err, model.ErrInvalidCoupon)
	money(t, "0.00", q.Discount)
	money(t, "45.00", q.Total)
}
