package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
)

type Service struct {
	logger *slog.Logger
	store  *state.Store
}

func NewSettingsService(l *slog.Logger, store *state.Store) *Service {
	return &Service{
		logger: l,
		store:  store,
	}
}

// Get returns the stored settings, falling back to the configured defaults.
func (s *Service) Get(ctx context.Context) (model.Settings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings.Get: %w", err)
	}
	return settings, nil
}

func (s *Service) Update(ctx context.Context, settings model.Settings) (model.Settings, error) {
	if err := settings.Validate(); err != nil {
		return model.Settings{}, err
	}

	err := s.store.Update(ctx, func(tx *state.Tx) error {
		return tx.SetSettings(settings)
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings.Update: %w", err)
	}

	s.logger.Info("settings updated",
		slog.String("name", settings.Name),
		slog.String("delivery_fee", settings.DeliveryFee.StringFixed(2)),
		slog.Bool("open", settings.IsOpen),
	)
	return settings, nil
}

// SetOpen flips the store-open flag, leaving every other field as stored.
func (s *Service) SetOpen(ctx context.Context, open bool) (model.Settings, error) {
	var settings model.Settings
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		var err error
		if settings, err = tx.Settings(); err != nil {
			return err
		}
		settings.IsOpen = open
		return tx.SetSettings(settings)
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings.SetOpen: %w", err)
	}

	s.logger.Info("store status changed", slog.Bool("open", open))
	return settings, nil
}
