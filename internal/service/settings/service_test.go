package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state/statetest"
)

func TestGet_Defaults(t *testing.T) {
	s := NewSettingsService(statetest.Logger(), statetest.New(t))

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, statetest.Settings().Name, got.Name)
	assert.True(t, got.IsOpen)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsService(statetest.Logger(), statetest.New(t))

	want := statetest.Settings()
	want.DeliveryFee = decimal.RequireFromString("7.50")
	_, err := s.Update(ctx, want)
	require.NoError(t, err)

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.True(t, want.DeliveryFee.Equal(got.DeliveryFee))
}

func TestUpdate_Invalid(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsService(statetest.Logger(), statetest.New(t))

	bad := statetest.Settings()
	bad.DeliveryFee = decimal.NewFromInt(-1)
	_, err := s.Update(ctx, bad)
	assert.ErrorIs(t, err, model.ErrInvalidSettings)

	bad = statetest.Settings()
	bad.Name = ""
	_, err = s.Update(ctx, bad)
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestSetOpen(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsService(statetest.Logger(), statetest.New(t))

	got, err := s.SetOpen(ctx, false)
	require.NoError(t, err)
	assert.False(t, got.IsOpen)
	assert.Equal(t, statetest.Settings().Name, got.Name)

	got, err = s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.IsOpen)
}
