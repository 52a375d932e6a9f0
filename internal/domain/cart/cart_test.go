package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

func line(id string, price int64, qty int) model.CartLine {
	return model.CartLine{
		ID:              id,
		Product:         model.Product{ID: "1", Name: "Margherita", Category: model.CategoryPizza, Price: decimal.NewFromInt(45)},
		Quantity:        qty,
		Size:            model.SizeL,
		Extras:          []string{"extra-bacon"},
		CalculatedPrice: decimal.NewFromInt(price),
	}
}

func TestCart_AddNeverMerges(t *testing.T) {
	c := New(nil)
	c.Add(line("a", 45, 2))
	c.Add(line("b", 45, 2))

	require.Equal(t, 2, c.Len())
	lines := c.Lines()
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, lines[1].Quantity)
	assert.Equal(t, "180.00", c.Total().StringFixed(2))
}

func TestCart_RemoveKeepsOrder(t *testing.T) {
	c := New([]model.CartLine{line("a", 10, 1), line("b", 20, 1), line("c", 30, 1)})

	assert.True(t, c.Remove("b"))
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].ID)
	assert.Equal(t, "c", lines[1].ID)
	assert.Equal(t, "40.00", c.Total().StringFixed(2))
}

func TestCart_RemoveUnknownIsNoop(t *testing.T) {
	c := New([]model.CartLine{line("a", 10, 1)})

	assert.False(t, c.Remove("missing"))
	assert.Equal(t, 1, c.Len())
}

func TestCart_Clear(t *testing.T) {
	c := New([]model.CartLine{line("a", 10, 1)})
	c.Clear()

	assert.True(t, c.Empty())
	assert.Equal(t, []model.CartLine{}, c.Lines())
	assert.True(t, c.Total().IsZero())
}

func TestCart_LinesAreIsolated(t *testing.T) {
	src := []model.CartLine{line("a", 10, 1)}
	c := New(src)
	src[0].Extras[0] = "borda-cheddar"

	out := c.Lines()
	out[0].Quantity = 99

	again := c.Lines()
	assert.Equal(t, []string{"extra-bacon"}, again[0].Extras)
	assert.Equal(t, 1, again[0].Quantity)
}
