package tiercache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tiercache/durable"
	"tiercache/memtier"
	"tiercache/persisttier"
	"tiercache/types"
)

// errMiss signals a durable-tier miss through singleflight. It never
// escapes Get.
var errMiss = errors.New("tiercache: miss")

// Manager orchestrates the memory and durable tiers. It is the sole owner
// of both: callers only ever receive value copies, never references into a
// tier, so cached state cannot be mutated from outside.
type Manager[T any] struct {
	cfg     config
	mem     *memtier.Tier[T]
	persist *persisttier.Tier[T] // nil when running memory-only

	// sf collapses concurrent durable loads for the same key into one.
	sf singleflight.Group

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ Cache[any] = (*Manager[any])(nil)

// New constructs a Manager. A nil store yields a memory-only cache;
// WithPersistence writes are then silently skipped, matching the degraded
// mode entered when a store is present but failing.
func New[T any](store durable.Store, opts ...Option) *Manager[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager[T]{
		cfg:    cfg,
		mem:    memtier.New[T](cfg.metrics),
		ctx:    ctx,
		cancel: cancel,
	}
	if store != nil {
		m.persist = persisttier.New[T](store, cfg.durableTimeout, cfg.logger)
	}

	if cfg.sweepInterval > 0 {
		m.wg.Add(1)
		go m.sweep()
	}

	return m
}

// Set writes value under key. See Cache.Set for the contract.
func (m *Manager[T]) Set(ctx context.Context, key string, value T, opts ...SetOption) {
	w := writeConfig{
		ttl:     m.cfg.defaultTTL,
		maxSize: m.cfg.defaultMaxSize,
	}
	for _, opt := range opts {
		opt(&w)
	}

	ent := types.NewEntry(value, w.ttl, time.Now())

	// Snapshot before the entry is published: once it is in the memory
	// tier, a concurrent Get may touch its access metadata.
	persist := w.persistent && m.persist != nil
	var snapshot types.Entry[T]
	if persist {
		snapshot = *ent
	}

	m.mem.Set(key, ent, w.maxSize)

	if persist {
		m.persist.Set(ctx, key, &snapshot)
	}
}

// Get returns the value for key. See Cache.Get for the contract.
func (m *Manager[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	if v, ok := m.mem.Get(key, time.Now()); ok {
		m.cfg.metrics.Hit()
		return v, true
	}

	if m.persist == nil {
		m.cfg.metrics.Miss()
		return zero, false
	}

	v, err, _ := m.sf.Do(key, func() (any, error) {
		return m.promote(ctx, key)
	})
	if err != nil {
		m.cfg.metrics.Miss()
		return zero, false
	}

	m.cfg.metrics.Hit()
	return v.(T), true
}

// promote loads key from the durable tier and, when the record is still
// valid, copies it into the memory tier. The promoted entry keeps its
// persisted creation time and TTL, so validity is judged against the
// original write even across a restart; the promoting read itself counts
// as an access.
func (m *Manager[T]) promote(ctx context.Context, key string) (T, error) {
	var zero T

	ent, ok := m.persist.Get(ctx, key)
	if !ok {
		return zero, errMiss
	}

	now := time.Now()
	if !ent.Valid(now) {
		// Prune the dead record so the next miss skips the decode.
		m.persist.Delete(ctx, key)
		return zero, errMiss
	}

	ent.Touch(now)
	data := ent.Data

	m.mem.Set(key, ent, m.cfg.defaultMaxSize)
	m.cfg.metrics.Promotion()
	m.cfg.logger.Debug("promoted entry from durable tier", zap.String("key", key))

	return data, nil
}

// Delete removes key from both tiers. See Cache.Delete.
func (m *Manager[T]) Delete(ctx context.Context, key string) {
	m.mem.Delete(key)
	if m.persist != nil {
		m.persist.Delete(ctx, key)
	}
}

// Clear empties both tiers. See Cache.Clear.
func (m *Manager[T]) Clear(ctx context.Context) {
	m.mem.Clear()
	if m.persist != nil {
		m.persist.Clear(ctx)
	}
}

// Stats reports the memory tier's size and the coarse hit-rate figure
// documented on the Stats type.
func (m *Manager[T]) Stats() Stats {
	size := m.mem.Len()
	total := m.mem.AccessTotal()

	var rate float64
	if total > 0 {
		rate = float64(size) / float64(total) * 100
	}
	return Stats{
		MemorySize:    size,
		HitRate:       rate,
		TotalAccesses: total,
	}
}

// Close stops the background sweep and waits for it to exit. Safe to call
// more than once.
func (m *Manager[T]) Close() {
	m.closeOnce.Do(func() {
		m.cancel()
		m.wg.Wait()
	})
}
