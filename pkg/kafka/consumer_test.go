package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdleConsumer(t *testing.T) *Consumer {
	t.Helper()
	// No broker listens here; the client is created and subscribed without connecting.
	c, err := NewConsumer(&ConsumerConfig{
		Topics:           []string{"order-events"},
		Brokers:          "127.0.0.1:1",
		ConsumerGroup:    "pizzeria-test",
		SessionTimeoutMs: 6000,
		MaxPollInterval:  10000,
	}, func(context.Context, *kafka.Message) error { return nil }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestConsumer_CloseWithoutRun(t *testing.T) {
	c := newIdleConsumer(t)

	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestConsumer_RunThenClose(t *testing.T) {
	c := newIdleConsumer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.Run(ctx))
	assert.NoError(t, c.Close())
}
