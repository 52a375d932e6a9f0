// Package kafka wraps the confluent client with the producer used by the outbox relay
// and the consumer that turns order events into local change notifications.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const flushTimeoutMs = 10_000

type ProducerConfig struct {
	Brokers     string
	ClientID    string
	Acks        string
	LingerMs    int
	Compression string
}

type Producer struct {
	p      *kafka.Producer
	logger *slog.Logger
}

func NewProducer(cfg *ProducerConfig, log *slog.Logger) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":        cfg.Brokers,
		"client.id":                cfg.ClientID,
		"acks":                     cfg.Acks,
		"enable.idempotence":       true,
		"linger.ms":                cfg.LingerMs,
		"compression.type":         cfg.Compression,
		"message.send.max.retries": 3,
		"delivery.timeout.ms":      30000,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka.NewProducer: %w", err)
	}
	return &Producer{p: p, logger: log}, nil
}

// Publish waits for the broker's delivery report or ctx, whichever comes first.
func (p *Producer) Publish(ctx context.Context, topic string, key, val []byte, headers []kafka.Header) error {
	ch := make(chan kafka.Event, 1)
	err := p.p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            key,
		Value:          val,
		Headers:        headers,
	}, ch)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}

	select {
	case ev := <-ch:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type: %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Producer) Close() {
	if remaining := p.p.Flush(flushTimeoutMs); remaining > 0 {
		p.logger.Warn("unflushed messages on close", slog.Int("remaining", remaining))
	}
	p.p.Close()
}
