package model

import "time"

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type OutboxMessage struct {
	ID        int64             `json:"id"          db:"id"`
	Topic     string            `json:"topic"       db:"topic"`
	Key       string            `json:"key"         db:"key"`
	EventType string            `json:"event_type"  db:"event_type"`
	Payload   []byte            `json:"payload"     db:"payload"`
	Headers   map[string]string `json:"headers"     db:"-"`
	CreatedAt time.Time         `json:"created_at"  db:"created_at"`
}

// OrderEvent is the payload of every order outbox message.
type OrderEvent struct {
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id,omitempty"`
	Status     OrderStatus `json:"status"`
	Previous   OrderStatus `json:"previous,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
