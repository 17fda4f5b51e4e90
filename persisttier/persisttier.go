// Package persisttier adapts the cache's entries to a durable.Store. The
// full entry is serialized, not just the value, so TTL and timestamps
// survive a process restart.
//
// Every failure in this package resolves to "record absent": store errors,
// timeouts, unreadable records, and unknown schema versions are logged and
// reported as misses, never as errors to the caller.
package persisttier

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"tiercache/durable"
	"tiercache/types"
)

// schemaVersion is bumped whenever the record layout changes. Records with
// another version are treated as misses rather than migrated.
const schemaVersion = 1

// DefaultTimeout bounds each durable-store call. The backend has no timeout
// of its own, so without this bound a hung store stalls Get and Set
// indefinitely.
const DefaultTimeout = 2 * time.Second

// record is the wire form of an entry.
type record[T any] struct {
	Schema       int           `json:"schema"`
	Data         T             `json:"data"`
	CreatedAt    time.Time     `json:"created_at"`
	TTL          time.Duration `json:"ttl"`
	AccessCount  uint64        `json:"access_count"`
	LastAccessed time.Time     `json:"last_accessed"`
}

// Tier translates entries to and from a durable.Store.
type Tier[T any] struct {
	store   durable.Store
	timeout time.Duration
	logger  *zap.Logger
}

func New[T any](store durable.Store, timeout time.Duration, logger *zap.Logger) *Tier[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tier[T]{
		store:   store,
		timeout: timeout,
		logger:  logger,
	}
}

// Set writes the entry best-effort. Serialization or store failures are
// logged and swallowed; durability is opt-in and never blocks the caller's
// write from succeeding in the memory tier.
func (t *Tier[T]) Set(ctx context.Context, key string, ent *types.Entry[T]) {
	raw, err := json.Marshal(record[T]{
		Schema:       schemaVersion,
		Data:         ent.Data,
		CreatedAt:    ent.CreatedAt,
		TTL:          ent.TTL,
		AccessCount:  ent.AccessCount,
		LastAccessed: ent.LastAccessed,
	})
	if err != nil {
		t.logger.Warn("cache entry not serializable, skipping durable write",
			zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.store.Put(ctx, key, raw); err != nil {
		t.logger.Warn("durable write failed", zap.String("key", key), zap.Error(err))
	}
}

// Get returns the stored entry for key, or false on a miss. A corrupted or
// schema-incompatible record is a miss; the caller cannot distinguish it
// from an absent key.
func (t *Tier[T]) Get(ctx context.Context, key string) (*types.Entry[T], bool) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	raw, ok, err := t.store.Get(ctx, key)
	if err != nil {
		t.logger.Warn("durable read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var rec record[T]
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.logger.Warn("corrupted cache record treated as miss",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if rec.Schema != schemaVersion {
		t.logger.Warn("cache record schema mismatch treated as miss",
			zap.String("key", key), zap.Int("schema", rec.Schema))
		return nil, false
	}

	return &types.Entry[T]{
		Data:         rec.Data,
		CreatedAt:    rec.CreatedAt,
		TTL:          rec.TTL,
		AccessCount:  rec.AccessCount,
		LastAccessed: rec.LastAccessed,
	}, true
}

// Delete removes the record for key. Failures are logged, never propagated.
func (t *Tier[T]) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.store.Delete(ctx, key); err != nil {
		t.logger.Warn("durable delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear removes every record. Failures are logged, never propagated.
func (t *Tier[T]) Clear(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.store.Clear(ctx); err != nil {
		t.logger.Warn("durable clear failed", zap.Error(err))
	}
}
