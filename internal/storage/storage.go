// Package storage defines the key-value backend the storefront state is persisted to.
package storage

import (
	"context"
	"errors"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

var ErrNotFound = errors.New("key not found")

// Batch is applied atomically: either every put, delete and outbox event is stored or none.
type Batch struct {
	Puts    map[string][]byte
	Deletes []string
	Events  []*model.OutboxMessage
}

// Keys lists every key the batch touches.
func (b Batch) Keys() []string {
	keys := make([]string, 0, len(b.Puts)+len(b.Deletes))
	for k := range b.Puts {
		keys = append(keys, k)
	}
	return append(keys, b.Deletes...)
}

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Commit(ctx context.Context, b Batch) error
	Close() error
}

// Watcher is implemented by backends shared between processes. Watch blocks, calling fn with
// the key of every change it observes, until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}

// OutboxRepo is the outbox side of a backend, drained by the relay.
type OutboxRepo interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetBatch(ctx context.Context, batchSize int) ([]*model.OutboxMessage, error)
	UpdateRetryCount(ctx context.Context, id int64, errMsg string) error
	MarkPublished(ctx context.Context, id int64) error
}
