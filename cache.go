// Package tiercache is a two-tier cache: a bounded in-process memory tier
// in front of a durable key-value store. Entries expire by TTL, the memory
// tier evicts least-recently-used entries, writes reach the durable tier
// only on request, and a memory miss that finds a valid durable record
// promotes it back into memory.
//
// The cache is single-process. It makes no coherency promises across
// processes sharing one durable store.
package tiercache

import "context"

// Cache is the public contract satisfied by Manager.
type Cache[T any] interface {
	// Set writes value under key. The memory tier is always written
	// synchronously, so a Get issued afterwards by the same caller observes
	// the value. With WithPersistence the durable tier is also written,
	// best-effort: a durable failure is logged and does not fail the Set.
	Set(ctx context.Context, key string, value T, opts ...SetOption)

	// Get returns the value for key. The memory tier is checked first; a
	// valid hit involves no durable I/O. On a memory miss the durable tier
	// is consulted and a valid record is promoted into memory before being
	// returned. Expired or absent entries yield the zero value and false.
	Get(ctx context.Context, key string) (T, bool)

	// Delete removes key from both tiers unconditionally. It never fails;
	// a durable-tier failure is logged only.
	Delete(ctx context.Context, key string)

	// Clear empties both tiers. Safe to call repeatedly.
	Clear(ctx context.Context)

	// Stats reports memory-tier statistics.
	Stats() Stats

	// Close stops the background sweep. Idempotent. The cache must not be
	// used after Close.
	Close()
}

// Stats is a snapshot of the memory tier.
//
// HitRate is MemorySize / TotalAccesses * 100, or 0 when nothing has been
// accessed. This is a deliberately coarse occupancy-per-access figure, not
// a true hit/miss ratio; wire a types.Metrics implementation for real
// hit and miss counts.
type Stats struct {
	// MemorySize is the number of entries currently in the memory tier,
	// including entries that have expired but not yet been discovered.
	MemorySize int

	// HitRate is the coarse percentage described above.
	HitRate float64

	// TotalAccesses is the sum of per-entry access counts across live
	// memory-tier entries. Evicted entries take their counts with them.
	TotalAccesses uint64
}
