// Package events turns order events read from the broker into local change
// notifications, so replicas in this process reload orders written elsewhere.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
	"github.com/sanchey92/pizzeria/pkg/outbox"
)

type Notifier interface {
	Notify(key string)
}

type OrderEventHandler struct {
	logger   *slog.Logger
	notifier Notifier
}

func NewOrderEventHandler(l *slog.Logger, n Notifier) *OrderEventHandler {
	return &OrderEventHandler{logger: l, notifier: n}
}

// Handle matches the kafka consumer's handler signature.
func (h *OrderEventHandler) Handle(_ context.Context, msg *kafka.Message) error {
	eventType := header(msg, outbox.HeaderEventType)
	switch eventType {
	case model.EventOrderPlaced, model.EventOrderStatusChanged:
	default:
		h.logger.Debug("ignoring event", slog.String("event_type", eventType))
		return nil
	}

	var ev model.OrderEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", eventType, err)
	}

	h.logger.Debug("order event received",
		slog.String("event_type", eventType),
		slog.String("order_id", ev.OrderID),
		slog.String("status", string(ev.Status)))
	h.notifier.Notify(state.KeyOrders)
	return nil
}

func header(msg *kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
