package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

const (
	CouponTenPercent   = "PIZZA10"
	CouponFreeDelivery = "ENTREGA"
)

var tenPercent = decimal.NewFromFloat(0.10)

// ResolveCoupon returns the discount a coupon code is worth. Codes match case-insensitively.
// An unknown code is worth nothing and yields ErrInvalidCoupon.
func ResolveCoupon(code string, subtotal, deliveryFee decimal.Decimal) (decimal.Decimal, error) {
	switch NormalizeCoupon(code) {
	case CouponTenPercent:
		return round(subtotal.Mul(tenPercent)), nil
	case CouponFreeDelivery:
		return round(deliveryFee), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidCoupon, code)
	}
}

func NormalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Quote is the checkout breakdown of a cart.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	CouponCode  string          `json:"coupon_code,omitempty"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuote prices lines with the given fee and optional coupon. An empty coupon is no
// coupon; an unknown one returns the quote without discount together with ErrInvalidCoupon.
func NewQuote(lines []model.CartLine, deliveryFee decimal.Decimal, coupon string) (Quote, error) {
	q := Quote{
		Subtotal:    CartTotal(lines),
		DeliveryFee: round(deliveryFee),
		Discount:    decimal.Zero,
	}

	var err error
	if strings.TrimSpace(coupon) != "" {
		q.Discount, err = ResolveCoupon(coupon, q.Subtotal, q.DeliveryFee)
		if err == nil {
			q.CouponCode = NormalizeCoupon(coupon)
		}
	}
	q.Total = FinalTotal(q.Subtotal, q.DeliveryFee, q.Discount)
	return q, err
}
