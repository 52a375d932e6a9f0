package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

func sampleOrder() model.Order {
	calabresa := model.Product{ID: "2", Name: "Calabresa", Category: model.CategoryPizza, Price: decimal.NewFromInt(48)}
	return model.Order{
		ID:            "abcd1234-0000-0000-0000-000000000000",
		CustomerName:  "Ana",
		CustomerPhone: "(11) 98888-7777",
		Address:       "Rua A, 10 - Centro",
		PaymentMethod: model.PaymentPix,
		Items: []model.CartLine{
			{
				ID:              "l1",
				Product:         model.Product{ID: "1", Name: "Margherita", Category: model.CategoryPizza},
				Quantity:        2,
				Size:            model.SizeXL,
				SecondFlavor:    &calabresa,
				Extras:          []string{"borda-catupiry", "mystery"},
				Observation:     "sem cebola",
				CalculatedPrice: decimal.NewFromInt(75),
			},
			{
				ID:              "l2",
				Product:         model.Product{ID: "5", Name: "Coca-Cola 2L", Category: model.CategoryDrink},
				Quantity:        1,
				CalculatedPrice: decimal.NewFromInt(12),
			},
		},
		Subtotal:    decimal.NewFromInt(162),
		DeliveryFee: decimal.NewFromInt(5),
		Total:       decimal.NewFromInt(167),
		Status:      model.OrderReceived,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestText(t *testing.T) {
	want := "*NOVO PEDIDO #abcd* 🍕\n\n" +
		"*Cliente:* Ana\n" +
		"*Telefone:* (11) 98888-7777\n" +
		"*Endereço:* Rua A, 10 - Centro\n" +
		"*Pagamento:* Pix\n\n" +
		"*ITENS:*\n" +
		"• 2x Margherita / Calabresa\n" +
		"   + Borda de Catupiry, mystery\n" +
		"   Obs: sem cebola\n" +
		"• 1x Coca-Cola 2L\n\n" +
		"*Taxa de Entrega:* R$ 5,00\n" +
		"*TOTAL:* R$ 167,00\n\n" +
		"Link do Pedido: https://pizza.example/orders/abcd1234-0000-0000-0000-000000000000"

	assert.Equal(t, want, Text(sampleOrder(), "https://pizza.example/orders/"))
}

func TestText_DiscountLine(t *testing.T) {
	o := sampleOrder()
	o.Discount = decimal.RequireFromString("16.20")

	assert.Contains(t, Text(o, ""), "*Desconto:* R$ 16,20\n")
}

func TestFormat_Destination(t *testing.T) {
	msg := Format(sampleOrder(), model.Settings{Phone: "(11) 4002-8922"}, Options{})

	assert.Equal(t, "551140028922", msg.Destination)
	assert.True(t, strings.HasPrefix(msg.URL, "https://wa.me/551140028922?text="))
}

func TestFormat_URLRoundTrips(t *testing.T) {
	msg := Format(sampleOrder(), model.Settings{Phone: "+55 11 4002-8922"}, Options{Domain: "chat.example", CountryCode: "1"})

	u, err := url.Parse(msg.URL)
	require.NoError(t, err)
	assert.Equal(t, "chat.example", u.Host)
	assert.Equal(t, "/1551140028922", u.Path)
	assert.Equal(t, msg.Text, u.Query().Get("text"))
	assert.NotContains(t, msg.URL, "+")
	assert.NotContains(t, msg.URL, " ")
}

func TestFormat_IsDeterministic(t *testing.T) {
	s := model.Settings{Phone: "11 4002-8922"}
	assert.Equal(t, Format(sampleOrder(), s, Options{}), Format(sampleOrder(), s, Options{}))
}

func TestCurrency(t *testing.T) {
	tests := map[string]string{
		"0":          "R$ 0,00",
		"5":          "R$ 5,00",
		"38.5":       "R$ 38,50",
		"999.999":    "R$ 1.000,00",
		"1234.5":     "R$ 1.234,50",
		"1234567.89": "R$ 1.234.567,89",
		"-12.3":      "-R$ 12,30",
	}
	for in, want := range tests {
		assert.Equal(t, want, Currency(decimal.RequireFromString(in)), in)
	}
	// Plain space after the symbol, so the encoded link carries %20 rather than %C2%A0.
	assert.NotContains(t, Currency(decimal.NewFromInt(5)), "\u00a0")
	assert.Contains(t, encodeComponent(Currency(decimal.NewFromInt(5))), "R%24%205%2C00")
}
