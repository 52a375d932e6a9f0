package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Out_for_Delivery")
	require.NoError(t, err)
	assert.Equal(t, OrderOutForDelivery, s)
	assert.Equal(t, 3, s.Step())
	assert.Equal(t, "Saiu para Entrega", s.Label())

	_, err = ParseStatus("Lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.True(t, IsUserError(err))
}

func TestCanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderReceived, OrderAccepted, true},
		{OrderReceived, OrderDelivered, true},
		{OrderPreparing, OrderAccepted, false},
		{OrderPreparing, OrderPreparing, false},
		{OrderDelivered, OrderReceived, false},
		{OrderReceived, "Lost", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Cartão de Crédito", PaymentCreditCard.Label())
	assert.Equal(t, "Pix", PaymentPix.Label())
	assert.Equal(t, "Dinheiro", PaymentCash.Label())
	assert.Equal(t, "Dinheiro", PaymentMethod("voucher").Label())
}

func TestCustomerInfoComplete(t *testing.T) {
	assert.True(t, CustomerInfo{Name: "A", Phone: "1", Address: "Rua"}.Complete())
	assert.False(t, CustomerInfo{Name: "A", Phone: " ", Address: "Rua"}.Complete())
}

func TestOrderClone_IsDeep(t *testing.T) {
	second := Product{ID: "2", Name: "Calabresa"}
	o := Order{ID: "abcdef", Items: []CartLine{{ID: "l1", Extras: []string{"extra-bacon"}, SecondFlavor: &second}}}

	c := o.Clone()
	c.Items[0].Extras[0] = "borda-cheddar"
	c.Items[0].SecondFlavor.Name = "Other"

	assert.Equal(t, "extra-bacon", o.Items[0].Extras[0])
	assert.Equal(t, "Calabresa", o.Items[0].SecondFlavor.Name)
	assert.Equal(t, "abcd", o.ShortID())
}

func TestValidation(t *testing.T) {
	assert.ErrorIs(t, Product{Name: "X", Category: "Soup"}.Validate(), ErrInvalidProduct)
	assert.NoError(t, Product{Name: "X", Category: CategoryDrink, Price: decimal.NewFromInt(3)}.Validate())
	assert.ErrorIs(t, Settings{Name: "P", DeliveryFee: decimal.NewFromInt(-2)}.Validate(), ErrInvalidSettings)
	assert.ErrorIs(t, Address{Street: "Rua"}.Validate(), ErrInvalidAddress)
}

func TestUserDefaultAddress(t *testing.T) {
	u := User{}
	assert.Empty(t, u.DefaultAddress())

	u.Addresses = []Address{{Street: "Rua A", Number: "10", Neighborhood: "Centro"}}
	assert.Equal(t, "Rua A, 10 - Centro", u.DefaultAddress())
}
