package order

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/notify"
	"github.com/sanchey92/pizzeria/internal/state"
)

type Config struct {
	// ConfirmDelay elapses between validation and commit of a submission.
	ConfirmDelay time.Duration
	// StrictTransitions rejects status moves that are not forward along the lifecycle.
	StrictTransitions bool
	// EventTopic is the outbox topic for order events; empty disables them.
	EventTopic string
	Notify     notify.Options
}

type Service struct {
	logger *slog.Logger
	store  *state.Store
	cfg    Config
	now    func() time.Time
}

func NewOrderService(l *slog.Logger, store *state.Store, cfg Config) *Service {
	return &Service{
		logger: l,
		store:  store,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// emit stages an order event in tx when events are enabled.
func (s *Service) emit(tx *state.Tx, eventType string, o model.Order, previous model.OrderStatus) error {
	if s.cfg.EventTopic == "" {
		return nil
	}

	payload, err := json.Marshal(model.OrderEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Previous:   previous,
		OccurredAt: o.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}

	tx.Emit(&model.OutboxMessage{
		Topic:     s.cfg.EventTopic,
		Key:       o.ID,
		EventType: eventType,
		Payload:   payload,
		Headers:   map[string]string{"order-id": o.ID},
	})
	return nil
}
