package order

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
)

// SetStatus moves order id to status. Both the admin list and the customer's history
// read the same record, so they never disagree.
func (s *Service) SetStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	if !status.Valid() {
		return model.Order{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}

	var (
		updated  model.Order
		previous model.OrderStatus
		changed  bool
	)
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		orders, err := tx.Orders()
		if err != nil {
			return err
		}
		i := slices.IndexFunc(orders, func(o model.Order) bool { return o.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
		}

		previous = orders[i].Status
		if s.cfg.StrictTransitions && !previous.CanAdvanceTo(status) {
			return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, previous, status)
		}
		if previous == status {
			updated = orders[i].Clone()
			return nil
		}

		orders[i].Status = status
		orders[i].UpdatedAt = s.now()
		updated = orders[i].Clone()
		changed = true

		if err = tx.SetOrders(orders); err != nil {
			return err
		}
		return s.emit(tx, model.EventOrderStatusChanged, updated, previous)
	})
	if err != nil {
		if model.IsUserError(err) {
			return model.Order{}, err
		}
		return model.Order{}, fmt.Errorf("order.SetStatus: %w", err)
	}

	if changed {
		s.logger.Info("order status changed",
			slog.String("id", id),
			slog.String("from", string(previous)),
			slog.String("to", string(status)),
		)
	}
	return updated, nil
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("order.List: %w", err)
	}
	return newestFirst(orders), nil
}

// Active counts orders not yet delivered.
func (s *Service) Active(ctx context.Context) (int, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return 0, fmt.Errorf("order.Active: %w", err)
	}
	n := 0
	for _, o := range orders {
		if !o.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Order, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("order.Get: %w", err)
	}
	i := slices.IndexFunc(orders, func(o model.Order) bool { return o.ID == id })
	if i < 0 {
		return model.Order{}, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}
	return orders[i], nil
}

// History returns the orders placed by customerID, newest first.
func (s *Service) History(ctx context.Context, customerID string) ([]model.Order, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return []model.Order{}, nil
	}
	return slices.DeleteFunc(orders, func(o model.Order) bool { return o.CustomerID != customerID }), nil
}

// SessionHistory is the history of the logged-in user.
func (s *Service) SessionHistory(ctx context.Context) ([]model.Order, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("order.SessionHistory: %w", err)
	}
	if user == nil {
		return nil, model.ErrNotLoggedIn
	}
	return s.History(ctx, user.ID)
}

// Tracking is an order placed on the lifecycle progress bar.
type Tracking struct {
	Order    model.Order `json:"order"`
	Step     int         `json:"step"`
	Steps    int         `json:"steps"`
	Label    string      `json:"label"`
	Progress int         `json:"progress"`
}

func (s *Service) Track(ctx context.Context, id string) (Tracking, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return Tracking{}, err
	}
	steps := len(model.Statuses())
	step := o.Status.Step()
	return Tracking{
		Order:    o,
		Step:     step,
		Steps:    steps,
		Label:    o.Status.Label(),
		Progress: max(step, 0) * 100 / (steps - 1),
	}, nil
}

// newestFirst sorts by creation time, later inserts first on ties.
func newestFirst(orders []model.Order) []model.Order {
	out := make([]model.Order, len(orders))
	for i, o := range orders {
		out[len(orders)-1-i] = o
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
