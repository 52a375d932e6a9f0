package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

const maxRetries = 5

type outboxRow struct {
	ID        int64     `db:"id"`
	Topic     string    `db:"topic"`
	Key       string    `db:"key"`
	EventType string    `db:"event_type"`
	Payload   []byte    `db:"payload"`
	Headers   string    `db:"headers"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *Storage) InsertOutboxMsg(ctx context.Context, msg *model.OutboxMessage) error {
	headers, err := json.Marshal(msg.Headers)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	query := `INSERT INTO outbox (topic, key, event_type, payload, headers, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	if _, err = s.conn(ctx).ExecContext(ctx, query,
		msg.Topic, msg.Key, msg.EventType, msg.Payload, string(headers), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert outbox msg: %w", err)
	}
	return nil
}

func (s *Storage) GetBatch(ctx context.Context, batchSize int) ([]*model.OutboxMessage, error) {
	query := `SELECT id, topic, key, event_type, payload, headers, created_at
              FROM outbox
              WHERE published_at IS NULL AND retry_count < ?
              ORDER BY id
              LIMIT ?`

	var rows []outboxRow
	if err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, query, maxRetries, batchSize); err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	msgs := make([]*model.OutboxMessage, 0, len(rows))
	for _, r := range rows {
		var headers map[string]string
		if err := json.Unmarshal([]byte(r.Headers), &headers); err != nil {
			return nil, fmt.Errorf("unmarshal headers: %w", err)
		}
		msgs = append(msgs, &model.OutboxMessage{
			ID:        r.ID,
			Topic:     r.Topic,
			Key:       r.Key,
			EventType: r.EventType,
			Payload:   r.Payload,
			Headers:   headers,
			CreatedAt: r.CreatedAt,
		})
	}
	return msgs, nil
}

func (s *Storage) UpdateRetryCount(ctx context.Context, id int64, errMsg string) error {
	query := `UPDATE outbox
              SET
                  retry_count = retry_count + 1,
                  last_error = ?
              WHERE id = ?`

	if _, err := s.conn(ctx).ExecContext(ctx, query, errMsg, id); err != nil {
		return fmt.Errorf("update retry count: %w", err)
	}
	return nil
}

func (s *Storage) MarkPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox
              SET published_at = ?
              WHERE id = ?`

	if _, err := s.conn(ctx).ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}
