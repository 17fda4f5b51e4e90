// Package memtier implements the fast, size-bounded tier of the cache: a map
// of key to entry plus an intrusive doubly-linked recency list, giving O(1)
// lookup and O(1) LRU eviction.
package memtier

import (
	"sync"
	"time"

	"tiercache/types"
)

// node is one entry inside the recency list. Front of the list is the most
// recently used key, tail the least.
type node[T any] struct {
	key   string
	entry *types.Entry[T]
	prev  *node[T]
	next  *node[T]
}

// Tier is safe for concurrent use. A plain mutex (not RWMutex) guards it
// because reads are not read-only: a hit mutates access metadata and moves
// the node to the front of the list.
type Tier[T any] struct {
	mu      sync.Mutex
	items   map[string]*node[T]
	head    *node[T]
	tail    *node[T]
	metrics types.Metrics
}

func New[T any](metrics types.Metrics) *Tier[T] {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &Tier[T]{
		items:   make(map[string]*node[T]),
		metrics: metrics,
	}
}

// Set inserts or overwrites the entry for key, then evicts from the tail of
// the recency list until at most maxSize entries remain. With maxSize == 0
// the tier ends up empty, including the entry just written.
//
// Entries sharing a LastAccessed timestamp are evicted in list order, which
// is fixed per run, so eviction is deterministic.
func (t *Tier[T]) Set(key string, ent *types.Entry[T], maxSize int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n, ok := t.items[key]; ok {
		n.entry = ent
		t.moveToFront(n)
	} else {
		n := &node[T]{key: key, entry: ent}
		t.items[key] = n
		t.addFront(n)
	}

	for len(t.items) > maxSize && t.tail != nil {
		evicted := t.tail
		t.unlink(evicted)
		delete(t.items, evicted.key)
		t.metrics.Eviction()
	}
}

// Get returns the entry's data if the key exists and the entry is valid at
// now. A valid hit touches the entry and marks it most recently used. An
// expired entry behaves as a miss and is removed on the spot, which
// amortizes the background sweep's workload.
func (t *Tier[T]) Get(key string, now time.Time) (T, bool) {
	var zero T

	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.items[key]
	if !ok {
		return zero, false
	}
	if !n.entry.Valid(now) {
		t.unlink(n)
		delete(t.items, key)
		t.metrics.Expire()
		return zero, false
	}

	n.entry.Touch(now)
	t.moveToFront(n)
	return n.entry.Data, true
}

// Delete removes the key unconditionally. Removing a missing key is a no-op.
func (t *Tier[T]) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n, ok := t.items[key]; ok {
		t.unlink(n)
		delete(t.items, key)
	}
}

// Clear removes every entry.
func (t *Tier[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = make(map[string]*node[T])
	t.head = nil
	t.tail = nil
}

// Len returns the number of live entries, expired or not.
func (t *Tier[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// AccessTotal sums AccessCount across all entries currently in the tier.
func (t *Tier[T]) AccessTotal() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total uint64
	for _, n := range t.items {
		total += n.entry.AccessCount
	}
	return total
}

// RemoveExpired deletes every entry that is no longer valid at now and
// returns how many were removed. The whole sweep runs under one lock
// acquisition, so an entry is removed at most once per sweep and a
// concurrent Get sees either the intact entry or a clean miss.
func (t *Tier[T]) RemoveExpired(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, n := range t.items {
		if n.entry.Valid(now) {
			continue
		}
		t.unlink(n)
		delete(t.items, key)
		t.metrics.Expire()
		removed++
	}
	return removed
}

// addFront links n in as the most recently used node.
func (t *Tier[T]) addFront(n *node[T]) {
	n.prev = nil
	n.next = t.head
	if t.head != nil {
		t.head.prev = n
	}
	t.head = n
	if t.tail == nil {
		t.tail = n
	}
}

// unlink detaches n from the list, fixing up head and tail as needed.
func (t *Tier[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		t.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		t.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (t *Tier[T]) moveToFront(n *node[T]) {
	if t.head == n {
		return
	}
	t.unlink(n)
	t.addFront(n)
}
