package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderReceived       OrderStatus = "Received"
	OrderAccepted       OrderStatus = "Accepted"
	OrderPreparing      OrderStatus = "Preparing"
	OrderOutForDelivery OrderStatus = "Out_for_Delivery"
	OrderDelivered      OrderStatus = "Delivered"
)

// statusFlow lists the lifecycle in order; the index is the progress step.
var statusFlow = []OrderStatus{
	OrderReceived,
	OrderAccepted,
	OrderPreparing,
	OrderOutForDelivery,
	OrderDelivered,
}

func Statuses() []OrderStatus {
	return append([]OrderStatus(nil), statusFlow...)
}

// Step returns the position of s in the lifecycle, or -1 for an unknown status.
func (s OrderStatus) Step() int {
	for i, st := range statusFlow {
		if st == s {
			return i
		}
	}
	return -1
}

var statusLabels = map[OrderStatus]string{
	OrderReceived:       "Recebido",
	OrderAccepted:       "Aceito",
	OrderPreparing:      "Preparando",
	OrderOutForDelivery: "Saiu para Entrega",
	OrderDelivered:      "Entregue",
}

// Label is the customer-facing name of the status.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s OrderStatus) Valid() bool {
	return s.Step() >= 0
}

func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered
}

// CanAdvanceTo reports whether next is a forward move from s. Skipping steps is allowed,
// staying put, going backwards and leaving Delivered are not.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	return next.Step() > s.Step()
}

func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPix        PaymentMethod = "pix"
	PaymentCash       PaymentMethod = "cash"
)

// Label is the customer-facing name; anything unrecognised is shown as cash.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCreditCard:
		return "Cartão de Crédito"
	case PaymentDebitCard:
		return "Cartão de Débito"
	case PaymentPix:
		return "Pix"
	default:
		return "Dinheiro"
	}
}

// CustomerInfo is the checkout form.
type CustomerInfo struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Coupon        string        `json:"coupon,omitempty"`
}

func (c CustomerInfo) Complete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Address) != ""
}

// Order is immutable after submission except for Status and UpdatedAt.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o Order) Clone() Order {
	c := o
	c.Items = CloneLines(o.Items)
	return c
}

// ShortID is the prefix shown to humans in messages.
func (o Order) ShortID() string {
	if len(o.ID) <= 4 {
		return o.ID
	}
	return o.ID[:4]
}
