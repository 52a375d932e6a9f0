package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

// Replica keeps an in-memory copy of one key, reloading it whenever the broker
// reports a change.
type Replica[T any] struct {
	logger *slog.Logger
	store  *Store
	key    string
	load   func(ctx context.Context) (T, error)

	mu       sync.RWMutex
	value    T
	onReload func(T)
}

func NewReplica[T any](log *slog.Logger, s *Store, key string, load func(ctx context.Context) (T, error)) *Replica[T] {
	return &Replica[T]{
		logger: log.With(slog.String("replica", key)),
		store:  s,
		key:    key,
		load:   load,
	}
}

func OrdersReplica(log *slog.Logger, s *Store) *Replica[[]model.Order] {
	return NewReplica(log, s, KeyOrders, s.Orders)
}

func SettingsReplica(log *slog.Logger, s *Store) *Replica[model.Settings] {
	return NewReplica(log, s, KeySettings, s.Settings)
}

// OnReload registers fn to run after every successful reload. Call it before Run.
func (r *Replica[T]) OnReload(fn func(T)) {
	r.onReload = fn
}

// Get returns the last loaded value. Callers must not mutate it.
func (r *Replica[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

func (r *Replica[T]) Reload(ctx context.Context) error {
	v, err := r.load(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.value = v
	r.mu.Unlock()

	if r.onReload != nil {
		r.onReload(v)
	}
	return nil
}

// Run loads the value and keeps it current until ctx is done. A failed reload keeps
// the previous value.
func (r *Replica[T]) Run(ctx context.Context) error {
	changes, cancel := r.store.Broker().Subscribe(r.key)
	defer cancel()

	if err := r.Reload(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if err := r.Reload(ctx); err != nil {
				r.logger.Error("failed to reload", slog.Bool("remote", c.Remote), slog.Any("error", err))
			}
		}
	}
}
