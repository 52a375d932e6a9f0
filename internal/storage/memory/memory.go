// Package memory is an in-process backend. With a snapshot path every commit is also
// written to a JSON file so state survives restarts.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/storage"
)

const maxRetries = 5

type outboxRecord struct {
	Message     model.OutboxMessage `json:"message"`
	PublishedAt *time.Time          `json:"published_at,omitempty"`
	RetryCount  int                 `json:"retry_count"`
	LastError   string              `json:"last_error,omitempty"`
}

// snapshot is the on-disk layout.
type snapshot struct {
	Values   map[string]json.RawMessage `json:"values"`
	Outbox   []outboxRecord             `json:"outbox"`
	OutboxID int64                      `json:"outbox_id"`
}

type Storage struct {
	logger *slog.Logger
	path   string

	mu       sync.Mutex
	values   map[string][]byte
	outbox   []outboxRecord
	outboxID int64
}

// New opens the backend, loading the snapshot at path if one exists. An empty path keeps
// everything in memory only.
func New(log *slog.Logger, path string) (*Storage, error) {
	s := &Storage{
		logger: log,
		path:   path,
		values: make(map[string][]byte),
	}

	snap, err := readSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if snap != nil {
		for k, v := range snap.Values {
			s.values[k] = []byte(v)
		}
		s.outbox = snap.Outbox
		s.outboxID = snap.OutboxID
	}
	return s, nil
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Commit applies b under one lock. When a snapshot file is configured and cannot be
// written, the in-memory state is rolled back and the error returned.
func (s *Storage) Commit(ctx context.Context, b storage.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevValues := maps.Clone(s.values)
	prevOutbox := append([]outboxRecord(nil), s.outbox...)
	prevID := s.outboxID

	for k, v := range b.Puts {
		s.values[k] = append([]byte(nil), v...)
	}
	for _, k := range b.Deletes {
		delete(s.values, k)
	}
	now := time.Now().UTC()
	for _, msg := range b.Events {
		s.outboxID++
		rec := outboxRecord{Message: *msg}
		rec.Message.ID = s.outboxID
		rec.Message.CreatedAt = now
		s.outbox = append(s.outbox, rec)
	}

	if err := s.persist(); err != nil {
		s.values, s.outbox, s.outboxID = prevValues, prevOutbox, prevID
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// RunInTx has nothing to isolate in memory: every outbox call takes the lock itself.
func (s *Storage) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Storage) GetBatch(_ context.Context, batchSize int) ([]*model.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msgs []*model.OutboxMessage
	for i := range s.outbox {
		rec := &s.outbox[i]
		if rec.PublishedAt != nil || rec.RetryCount >= maxRetries {
			continue
		}
		msg := rec.Message
		msgs = append(msgs, &msg)
		if len(msgs) == batchSize {
			break
		}
	}
	return msgs, nil
}

func (s *Storage) UpdateRetryCount(_ context.Context, id int64, errMsg string) error {
	return s.updateOutbox(id, func(rec *outboxRecord) {
		rec.RetryCount++
		rec.LastError = errMsg
	})
}

func (s *Storage) MarkPublished(_ context.Context, id int64) error {
	return s.updateOutbox(id, func(rec *outboxRecord) {
		now := time.Now().UTC()
		rec.PublishedAt = &now
	})
}

func (s *Storage) updateOutbox(id int64, fn func(rec *outboxRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].Message.ID == id {
			fn(&s.outbox[i])
			return s.persist()
		}
	}
	return fmt.Errorf("outbox message %d not found", id)
}

// Keys returns the stored keys in sorted order.
func (s *Storage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Storage) persist() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		Values:   make(map[string]json.RawMessage, len(s.values)),
		Outbox:   s.outbox,
		OutboxID: s.outboxID,
	}
	for k, v := range s.values {
		snap.Values[k] = v
	}
	if err := writeSnapshot(s.path, snap); err != nil {
		return err
	}
	s.logger.Debug("snapshot written", slog.String("path", s.path), slog.Int("keys", len(s.values)))
	return nil
}

func readSnapshot(path string) (*snapshot, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var snap snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func writeSnapshot(path string, snap snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	temp := path + ".tmp"
	if err = os.WriteFile(temp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(temp, path)
}
