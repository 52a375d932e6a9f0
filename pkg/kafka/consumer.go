package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const pollTimeoutMs = 100

type ConsumerConfig struct {
	Topics           []string
	Brokers          string
	ConsumerGroup    string
	OffsetReset      string
	SessionTimeoutMs int
	MaxPollInterval  int
}

type Handler func(ctx context.Context, msg *kafka.Message) error

// Consumer handles messages one at a time in poll order. Offsets are stored after the
// handler returns and committed in the background by the client.
type Consumer struct {
	c      *kafka.Consumer
	h      Handler
	logger *slog.Logger
	group  string

	closeOnce sync.Once
	closeErr  error
}

func NewConsumer(cfg *ConsumerConfig, h Handler, log *slog.Logger) (*Consumer, error) {
	reset := cfg.OffsetReset
	if reset == "" {
		reset = "latest"
	}

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        cfg.Brokers,
		"group.id":                 cfg.ConsumerGroup,
		"enable.auto.commit":       true,
		"enable.auto.offset.store": false,
		"auto.offset.reset":        reset,
		"session.timeout.ms":       cfg.SessionTimeoutMs,
		"heartbeat.interval.ms":    cfg.SessionTimeoutMs / 3,
		"max.poll.interval.ms":     cfg.MaxPollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka.newConsumer: %w", err)
	}

	if err = c.SubscribeTopics(cfg.Topics, nil); err != nil {
		if closeErr := c.Close(); closeErr != nil {
			log.Error("failed to close consumer", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("subscribe topics: %w", err)
	}

	return &Consumer{
		c:      c,
		h:      h,
		logger: log,
		group:  cfg.ConsumerGroup,
	}, nil
}

// Run blocks until ctx is canceled or a fatal client error occurs.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("group", c.group))

	for {
		select {
		case <-ctx.Done():
			return c.Close()
		default:
		}

		switch e := c.c.Poll(pollTimeoutMs).(type) {
		case nil:
		case *kafka.Message:
			c.handle(ctx, e)

		case kafka.Error:
			if e.IsFatal() {
				c.logger.Error("fatal consumer error", slog.Any("error", e))
				if closeErr := c.Close(); closeErr != nil {
					c.logger.Error("close after fatal error", slog.Any("error", closeErr))
				}
				return fmt.Errorf("fatal: %w", e)
			}
			c.logger.Warn("consumer error (non-fatal)",
				slog.Any("error", e), slog.Int("code", int(e.Code())))

		case kafka.AssignedPartitions:
			c.logger.Info("partitions assigned", slog.Int("count", len(e.Partitions)))

		case kafka.RevokedPartitions:
			c.logger.Info("partitions revoked", slog.Int("count", len(e.Partitions)))

		case kafka.OffsetsCommitted:
			if e.Error != nil {
				c.logger.Warn("offset commit error", slog.Any("error", e.Error))
			}
		}
	}
}

// handle runs the handler and stores the offset either way: a message the handler
// cannot process is logged and skipped.
func (c *Consumer) handle(ctx context.Context, msg *kafka.Message) {
	if err := c.h(ctx, msg); err != nil {
		c.logger.Error("handler error",
			slog.String("topic", topicOf(msg)),
			slog.Int("partition", int(msg.TopicPartition.Partition)),
			slog.Int64("offset", int64(msg.TopicPartition.Offset)),
			slog.Any("error", err))
	}
	if _, err := c.c.StoreMessage(msg); err != nil {
		c.logger.Warn("store offset", slog.Any("error", err))
	}
}

// Close leaves the group and releases the client. Run calls it on exit; calling it
// again, or on a consumer that never ran, is safe.
func (c *Consumer) Close() error {
	c.closeOnce.Do(func() {
		c.logger.Info("consumer shutting down")
		if err := c.c.Close(); err != nil {
			c.closeErr = fmt.Errorf("closing: %w", err)
			return
		}
		c.logger.Info("consumer stopped")
	})
	return c.closeErr
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}
