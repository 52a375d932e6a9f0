package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
	"github.com/sanchey92/pizzeria/pkg/outbox"
)

type recorder struct {
	keys []string
}

func (r *recorder) Notify(key string) {
	r.keys = append(r.keys, key)
}

func message(eventType, payload string) *kafka.Message {
	topic := "order-events"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Value:          []byte(payload),
		Headers:        []kafka.Header{{Key: outbox.HeaderEventType, Value: []byte(eventType)}},
	}
}

func TestHandle(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		msg      *kafka.Message
		wantErr  bool
		wantKeys []string
	}{
		{
			name:     "status change",
			msg:      message(model.EventOrderStatusChanged, `{"order_id":"o1","status":"Preparing","previous":"Received"}`),
			wantKeys: []string{state.KeyOrders},
		},
		{
			name:     "placed",
			msg:      message(model.EventOrderPlaced, `{"order_id":"o1","status":"Received"}`),
			wantKeys: []string{state.KeyOrders},
		},
		{
			name: "unknown event",
			msg:  message("InventoryReserved", `{}`),
		},
		{
			name:    "malformed payload",
			msg:     message(model.EventOrderPlaced, `{`),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := NewOrderEventHandler(log, rec).Handle(context.Background(), tt.msg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantKeys, rec.keys)
		})
	}
}
