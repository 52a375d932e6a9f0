// Package state is the storefront's application state: typed access to the persisted keys,
// atomic multi-key updates and change notification.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/storage"
)

const (
	KeyCart     = "cart"
	KeyOrders   = "orders"
	KeyProducts = "products"
	KeySettings = "settings"
	KeyUser     = "user"
	KeyUsers    = "users"
)

// Store serialises read-modify-write cycles within this process. Writers in other processes
// are not locked out: the last commit of a key wins.
type Store struct {
	logger   *slog.Logger
	backend  storage.Backend
	broker   *Broker
	defaults model.Settings

	mu sync.Mutex
}

func New(log *slog.Logger, backend storage.Backend, broker *Broker, defaults model.Settings) *Store {
	return &Store{
		logger:   log,
		backend:  backend,
		broker:   broker,
		defaults: defaults,
	}
}

func (s *Store) Broker() *Broker {
	return s.broker
}

// Update runs fn against a transaction and commits everything it staged as one batch.
// Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(ctx, s)
	if err := fn(tx); err != nil {
		return err
	}
	if tx.empty() {
		return nil
	}

	if err := s.backend.Commit(ctx, tx.batch); err != nil {
		return fmt.Errorf("state commit: %w", err)
	}

	for _, key := range tx.batch.Keys() {
		s.broker.Publish(Change{Key: key})
	}
	s.logger.Debug("state committed", slog.Any("keys", tx.batch.Keys()), slog.Int("events", len(tx.batch.Events)))
	return nil
}

// View runs fn against a read-only snapshot of the current values.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	return fn(newTx(ctx, s))
}

// Notify announces a change made outside this Store, e.g. by another process.
func (s *Store) Notify(key string) {
	s.broker.Publish(Change{Key: key, Remote: true})
}

// Follow forwards the changes observed by w until ctx is done.
func (s *Store) Follow(ctx context.Context, w storage.Watcher) error {
	return w.Watch(ctx, s.Notify)
}

func (s *Store) Cart(ctx context.Context) (lines []model.CartLine, err error) {
	err = s.View(ctx, func(tx *Tx) error {
		lines, err = tx.Cart()
		return err
	})
	return lines, err
}

func (s *Store) Orders(ctx context.Context) (orders []model.Order, err error) {
	err = s.View(ctx, func(tx *Tx) error {
		orders, err = tx.Orders()
		return err
	})
	return orders, err
}

func (s *Store) Products(ctx context.Context) (products []model.Product, err error) {
	err = s.View(ctx, func(tx *Tx) error {
		products, err = tx.Products()
		return err
	})
	return products, err
}

func (s *Store) Settings(ctx context.Context) (settings model.Settings, err error) {
	err = s.View(ctx, func(tx *Tx) error {
		settings, err = tx.Settings()
		return err
	})
	return settings, err
}

func (s *Store) User(ctx context.Context) (user *model.User, err error) {
	err = s.View(ctx, func(tx *Tx) error {
		user, err = tx.User()
		return err
	})
	return user, err
}

// load decodes key into a T, reporting found=false when the key is absent.
func load[T any](ctx context.Context, b storage.Backend, key string) (v T, found bool, err error) {
	raw, err := b.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("get %s: %w", key, err)
	}
	if err = json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}
