// Package outbox relays committed outbox messages to the broker. A message is marked
// published only after the broker acknowledged it; failures are retried on the next
// tick until the repository stops returning the message.
package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/storage"
)

const (
	HeaderEventType   = "event-type"
	HeaderContentType = "content-type"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key, val []byte, headers []kafka.Header) error
}

type Relay struct {
	repo         storage.OutboxRepo
	publisher    Publisher
	logger       *slog.Logger
	batchSize    int
	pollInterval time.Duration
}

func NewRelay(r storage.OutboxRepo, p Publisher, l *slog.Logger, batchSize int, pollInterval time.Duration) *Relay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Relay{
		repo:         r,
		publisher:    p,
		logger:       l,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay started",
		slog.Int("batch_size", r.batchSize),
		slog.Duration("poll_interval", r.pollInterval))

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil {
				r.logger.Error("outbox flush failed", slog.Any("error", err))
			}
		}
	}
}

// Flush publishes pending batches until one comes back short and reports how many
// messages the broker accepted.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	total := 0
	for ctx.Err() == nil {
		fetched, published, err := r.processBatch(ctx)
		total += published
		if err != nil {
			return total, err
		}
		if fetched < r.batchSize || published == 0 {
			break
		}
	}
	return total, nil
}

func (r *Relay) processBatch(ctx context.Context) (fetched, published int, err error) {
	err = r.repo.RunInTx(ctx, func(ctx context.Context) error {
		msgs, err := r.repo.GetBatch(ctx, r.batchSize)
		if err != nil {
			return err
		}
		fetched = len(msgs)

		for _, msg := range msgs {
			if pubErr := r.publisher.Publish(ctx, msg.Topic, []byte(msg.Key), msg.Payload, headers(msg)); pubErr != nil {
				r.logger.Warn("publish failed",
					slog.Int64("id", msg.ID),
					slog.String("event_type", msg.EventType),
					slog.Any("error", pubErr))
				if err = r.repo.UpdateRetryCount(ctx, msg.ID, pubErr.Error()); err != nil {
					return err
				}
				continue
			}
			if err = r.repo.MarkPublished(ctx, msg.ID); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if published > 0 {
		r.logger.Debug("outbox batch published", slog.Int("published", published), slog.Int("fetched", fetched))
	}
	return fetched, published, err
}

func headers(msg *model.OutboxMessage) []kafka.Header {
	out := make([]kafka.Header, 0, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return append(out,
		kafka.Header{Key: HeaderEventType, Value: []byte(msg.EventType)},
		kafka.Header{Key: HeaderContentType, Value: []byte("application/json")},
	)
}
