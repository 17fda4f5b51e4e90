package memtier_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiercache/memtier"
	"tiercache/types"
)

// countingMetrics records events for assertions.
type countingMetrics struct {
	mu        sync.Mutex
	evictions int
	expired   int
}

func (m *countingMetrics) Hit()       {}
func (m *countingMetrics) Miss()      {}
func (m *countingMetrics) Promotion() {}
func (m *countingMetrics) Eviction()  { m.mu.Lock(); m.evictions++; m.mu.Unlock() }
func (m *countingMetrics) Expire()    { m.mu.Lock(); m.expired++; m.mu.Unlock() }

func entryAt(value string, ttl time.Duration, now time.Time) *types.Entry[string] {
	return types.NewEntry(value, ttl, now)
}

func TestSetAndGet(t *testing.T) {
	now := time.Now()
	tier := memtier.New[string](nil)

	tier.Set("k", entryAt("v", time.Minute, now), 10)

	v, ok := tier.Get("k", now)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestOverwriteKeepsSize(t *testing.T) {
	now := time.Now()
	tier := memtier.New[string](nil)

	tier.Set("k", entryAt("v1", time.Minute, now), 10)
	tier.Set("k", entryAt("v2", time.Minute, now), 10)

	assert.Equal(t, 1, tier.Len())
	v, _ := tier.Get("k", now)
	assert.Equal(t, "v2", v)
}

func TestCapacityInvariant(t *testing.T) {
	now := time.Now()
	tier := memtier.New[string](nil)

	for i := 0; i < 25; i++ {
		key := fmt.Sprintf("k-%d", i)
		tier.Set(key, entryAt(key, time.Minute, now.Add(time.Duration(i)*time.Millisecond)), 10)
		assert.LessOrEqual(t, tier.Len(), 10)
	}
	assert.Equal(t, 10, tier.Len())
}

func TestLRUEvictsOldestAccess(t *testing.T) {
	now := time.Now()
	metrics := &countingMetrics{}
	tier := memtier.New[string](metrics)

	tier.Set("a", entryAt("a", time.Minute, now), 3)
	tier.Set("b", entryAt("b", time.Minute, now.Add(time.Millisecond)), 3)
	tier.Set("c", entryAt("c", time.Minute, now.Add(2*time.Millisecond)), 3)

	// Reading "a" makes it the most recently used, so "b" is now oldest.
	_, ok := tier.Get("a", now.Add(3*time.Millisecond))
	require.True(t, ok)

	tier.Set("d", entryAt("d", time.Minute, now.Add(4*time.Millisecond)), 3)

	_, ok = tier.Get("b", now.Add(5*time.Millisecond))
	assert.False(t, ok, "least recently used entry should have been evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, ok := tier.Get(key, now.Add(5*time.Millisecond))
		assert.True(t, ok, "key %q should survive eviction", key)
	}
	assert.Equal(t, 1, metrics.evictions)
}

func TestMaxSizeZeroEmptiesTier(t *testing.T) {
	now := time.Now()
	tier := memtier.New[string](nil)

	tier.Set("k", entryAt("v", time.Minute, now), 0)

	assert.Equal(t, 0, tier.Len())
	_, ok := tier.Get("k", now)
	assert.False(t, ok)
}

func TestExpiredGetBehavesAsMissAndRemoves(t *testing.T) {
	now := time.Now()
	metrics := &countingMetrics{}
	tier := memtier.New[string](metrics)

	tier.Set("k", entryAt("v", 100*time.Millisecond, now), 10)

	_, ok := tier.Get("k", now.Add(150*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, 0, tier.Len(), "expired entry should be removed lazily")
	assert.Equal(t, 1, metrics.expired)
}

func TestDeleteAndClear(t *testing.T) {
	now := time.Now()
	tier := memtier.New[string](nil)

	tier.Set("a", entryAt("a", time.Minute, now), 10)
	tier.Set("b", entryAt("b", time.Minute, now), 10)

	tier.Delete("a")
	tier.Delete("missing") // no-op
	_, ok := tier.Get("a", now)
	assert.False(t, ok)
	assert.Equal(t, 1, tier.Len())

	tier.Clear()
	tier.Clear() // idempotent
	assert.Equal(t, 0, tier.Len())
}

func TestAccessTotal(t *testing.T) {
	now := time.Now()
	tier := memtier.New[string](nil)

	tier.Set("a", entryAt("a", time.Minute, now), 10)
	tier.Set("b", entryAt("b", time.Minute, now), 10)

	for i := 0; i < 3; i++ {
		tier.Get("a", now.Add(time.Duration(i)*time.Millisecond))
	}
	tier.Get("b", now)

	assert.Equal(t, uint64(4), tier.AccessTotal())
}

func TestRemoveExpired(t *testing.T) {
	now := time.Now()
	metrics := &countingMetrics{}
	tier := memtier.New[string](metrics)

	tier.Set("short", entryAt("s", 50*time.Millisecond, now), 10)
	tier.Set("long", entryAt("l", time.Hour, now), 10)

	removed := tier.RemoveExpired(now.Add(100 * time.Millisecond))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, tier.Len())
	assert.Equal(t, 1, metrics.expired)

	_, ok := tier.Get("long", now.Add(100*time.Millisecond))
	assert.True(t, ok)
}

func TestEvictionTieBreakIsInsertionOrder(t *testing.T) {
	// All entries share one LastAccessed timestamp; eviction must still be
	// deterministic, removing the earliest-inserted first.
	now := time.Now()
	tier := memtier.New[string](nil)

	tier.Set("first", entryAt("1", time.Minute, now), 3)
	tier.Set("second", entryAt("2", time.Minute, now), 3)
	tier.Set("third", entryAt("3", time.Minute, now), 3)
	tier.Set("fourth", entryAt("4", time.Minute, now), 3)

	_, ok := tier.Get("first", now)
	assert.False(t, ok, "earliest-inserted entry should be the eviction tie-break loser")
	for _, key := range []string{"second", "third", "fourth"} {
		_, ok := tier.Get(key, now)
		assert.True(t, ok)
	}
}

func TestConcurrentAccess(t *testing.T) {
	now := time.Now()
	tier := memtier.New[int](nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k-%d", j%20)
				tier.Set(key, types.NewEntry(j, time.Minute, now), 10)
				tier.Get(key, now)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, tier.Len(), 10)
}
