package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sanchey92/pizzeria/internal/storage"
)

// changeChannel is the LISTEN/NOTIFY channel carrying the key of every committed write.
const changeChannel = "storefront_changes"

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn(ctx).QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, storage.ErrNotFound
	default:
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
}

// Commit writes the batch in one transaction. Notifications are queued inside it, so
// listeners only hear about keys once the data is visible.
func (s *Storage) Commit(ctx context.Context, b storage.Batch) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		for key, value := range b.Puts {
			if err := s.put(ctx, key, value); err != nil {
				return err
			}
		}
		for _, key := range b.Deletes {
			if _, err := s.conn(ctx).Exec(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		for _, msg := range b.Events {
			if err := s.InsertOutboxMsg(ctx, msg); err != nil {
				return fmt.Errorf("insert outbox msg: %w", err)
			}
		}
		for _, key := range b.Keys() {
			if _, err := s.conn(ctx).Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, key); err != nil {
				return fmt.Errorf("notify %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *Storage) put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv (key, value)
              VALUES ($1, $2)
              ON CONFLICT (key) DO UPDATE SET
                  value = EXCLUDED.value,
                  version = kv.version + 1,
                  updated_at = now()`

	if _, err := s.conn(ctx).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
