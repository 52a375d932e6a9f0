// Package statetest builds stores for tests.
package statetest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
	"github.com/sanchey92/pizzeria/internal/storage/memory"
)

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Settings is an open store with a 5.00 delivery fee.
func Settings() model.Settings {
	return model.Settings{
		Name:         "Pizzaria Bella",
		Phone:        "(11) 4002-8922",
		Address:      "Rua das Flores, 123",
		DeliveryFee:  decimal.NewFromInt(5),
		DeliveryTime: "40-50 min",
		IsOpen:       true,
	}
}

// New returns a store over an empty in-memory backend.
func New(t testing.TB) *state.Store {
	t.Helper()
	backend, err := memory.New(Logger(), "")
	require.NoError(t, err)
	return state.New(Logger(), backend, state.NewBroker(), Settings())
}
