package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
	"github.com/sanchey92/pizzeria/internal/state/statetest"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s := NewCatalogService(statetest.Logger(), statetest.New(t))
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func TestSeed_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	products, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 7)

	require.NoError(t, s.Delete(ctx, "1"))
	require.NoError(t, s.Seed(ctx))

	products, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 6)
}

func TestSeed_KeepsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store := statetest.New(t)
	require.NoError(t, store.Update(ctx, func(tx *state.Tx) error {
		return tx.SetProducts(nil)
	}))

	s := NewCatalogService(statetest.Logger(), store)
	require.NoError(t, s.Seed(ctx))

	products, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListByCategory(t *testing.T) {
	s := newService(t)

	drinks, err := s.ListByCategory(context.Background(), model.CategoryDrink)
	require.NoError(t, err)
	require.Len(t, drinks, 2)
	for _, d := range drinks {
		assert.Equal(t, model.CategoryDrink, d.Category)
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	p, err := s.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Quatro Queijos", p.Name)

	_, err = s.Get(ctx, "99")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	p, err := s.Create(ctx, model.Product{Name: " Frango com Catupiry ", Price: decimal.NewFromInt(49)})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Frango com Catupiry", p.Name)
	assert.Equal(t, model.CategoryPizza, p.Category)
	assert.Equal(t, DefaultImage, p.Image)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestCreate_Invalid(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	tests := []struct {
		name string
		p    model.Product
	}{
		{name: "blank name", p: model.Product{Name: "  ", Price: decimal.NewFromInt(1)}},
		{name: "negative price", p: model.Product{Name: "X", Price: decimal.NewFromInt(-1)}},
		{name: "unknown category", p: model.Product{Name: "X", Category: "Soup"}},
		{name: "duplicate id", p: model.Product{ID: "1", Name: "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.p)
			assert.ErrorIs(t, err, model.ErrInvalidProduct)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	p, err := s.Get(ctx, "5")
	require.NoError(t, err)
	p.Price = decimal.NewFromInt(14)
	_, err = s.Update(ctx, p)
	require.NoError(t, err)

	got, err := s.Get(ctx, "5")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(14).Equal(got.Price))

	_, err = s.Update(ctx, model.Product{ID: "99", Name: "Ghost"})
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	require.NoError(t, s.Delete(ctx, "5"))
	assert.ErrorIs(t, s.Delete(ctx, "5"), model.ErrProductNotFound)
}

func TestIndex(t *testing.T) {
	lookup := Index(DefaultProducts())

	p, ok := lookup("2")
	require.True(t, ok)
	assert.Equal(t, "Calabresa", p.Name)
	_, ok = lookup("nope")
	assert.False(t, ok)
}
