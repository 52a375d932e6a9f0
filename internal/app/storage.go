package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sanchey92/pizzeria/internal/config"
	"github.com/sanchey92/pizzeria/internal/storage"
	"github.com/sanchey92/pizzeria/internal/storage/memory"
	"github.com/sanchey92/pizzeria/internal/storage/pg"
	"github.com/sanchey92/pizzeria/internal/storage/sqlite"
)

// backend is what every storage driver provides: values and the outbox.
type backend interface {
	storage.Backend
	storage.OutboxRepo
}

func openBackend(ctx context.Context, log *slog.Logger, cfg *config.Config) (backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(log, cfg.Storage.SnapshotPath)

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		s, err := sqlite.NewSQLiteStorage(ctx, log, &sqlite.StorageConfig{
			Path:         cfg.Storage.SQLitePath,
			PollInterval: cfg.Storage.PollInterval,
		})
		if err != nil {
			return nil, err
		}
		log.Info("sqlite opened", slog.String("path", cfg.Storage.SQLitePath))
		return s, nil

	case config.DriverPostgres:
		s, err := pg.NewPGStorage(ctx, log, &pg.StorageConfig{
			DSN:             cfg.Postgres.DSN,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			MaxConnLife:     cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		log.Info("postgres connected")
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
