package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanchey92/pizzeria/internal/storage"
)

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := sqlx.GetContext(ctx, s.conn(ctx), &value, `SELECT value FROM kv WHERE key = ?`, key)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, storage.ErrNotFound
	default:
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
}

func (s *Storage) Commit(ctx context.Context, b storage.Batch) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		for key, value := range b.Puts {
			if err := s.put(ctx, key, value, now); err != nil {
				return err
			}
		}
		for _, key := range b.Deletes {
			if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		for _, msg := range b.Events {
			if err := s.InsertOutboxMsg(ctx, msg); err != nil {
				return fmt.Errorf("insert outbox msg: %w", err)
			}
		}
		return nil
	})
}

func (s *Storage) put(ctx context.Context, key string, value []byte, now time.Time) error {
	query := `INSERT INTO kv (key, value, version, updated_at)
              VALUES (?, ?, 1, ?)
              ON CONFLICT(key) DO UPDATE SET
                  value = excluded.value,
                  version = kv.version + 1,
                  updated_at = excluded.updated_at`

	if _, err := s.conn(ctx).ExecContext(ctx, query, key, value, now); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

type keyVersion struct {
	Key     string `db:"key"`
	Version int64  `db:"version"`
}

func (s *Storage) versions(ctx context.Context) (map[string]int64, error) {
	var rows []keyVersion
	if err := sqlx.SelectContext(ctx, s.db, &rows, `SELECT key, version FROM kv`); err != nil {
		return nil, fmt.Errorf("select versions: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Version
	}
	return out, nil
}

// Watch polls row versions and reports every key that was written or deleted since the
// previous poll, including writes made by this process.
func (s *Storage) Watch(ctx context.Context, fn func(key string)) error {
	seen, err := s.versions(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := s.versions(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("poll kv versions", slog.Any("error", err))
			continue
		}
		for key, v := range current {
			if seen[key] != v {
				fn(key)
			}
		}
		for key := range seen {
			if _, ok := current[key]; !ok {
				fn(key)
			}
		}
		seen = current
	}
}
