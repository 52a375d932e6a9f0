// Package sqlite is a file-backed backend shared by every process that opens the same
// database file. Changes made elsewhere are picked up by polling row versions.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	version    INTEGER NOT NULL DEFAULT 1,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS outbox (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	topic        TEXT NOT NULL,
	key          TEXT NOT NULL,
	event_type   TEXT NOT NULL,
	payload      BLOB NOT NULL,
	headers      TEXT NOT NULL DEFAULT '{}',
	created_at   TIMESTAMP NOT NULL,
	published_at TIMESTAMP,
	retry_count  INTEGER NOT NULL DEFAULT 0,
	last_error   TEXT
);`

type StorageConfig struct {
	Path         string
	PollInterval time.Duration
}

type Storage struct {
	logger       *slog.Logger
	db           *sqlx.DB
	pollInterval time.Duration
}

type txKey struct{}

func NewSQLiteStorage(ctx context.Context, log *slog.Logger, cfg *StorageConfig) (*Storage, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", cfg.Path)
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	if _, err = db.ExecContext(ctx, schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close sqlite", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	return &Storage{logger: log, db: db, pollInterval: poll}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// RunInTx runs fn in a transaction carried by ctx. Nested calls join the outer transaction.
func (s *Storage) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Storage) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}
