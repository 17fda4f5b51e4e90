package types

import "time"

// Entry is the stored unit of the cache: the value plus the metadata that
// drives expiry and eviction. The entry owns its Data copy; callers never
// hold references into a tier.
//
// Access metadata (AccessCount, LastAccessed) is intentionally mutable and
// is updated only on successful reads.
type Entry[T any] struct {
	Data         T
	CreatedAt    time.Time
	TTL          time.Duration
	AccessCount  uint64
	LastAccessed time.Time
}

// NewEntry creates an entry stamped at now. The creation time doubles as the
// initial last-access time so a never-read entry still has a defined LRU
// position.
func NewEntry[T any](data T, ttl time.Duration, now time.Time) *Entry[T] {
	return &Entry[T]{
		Data:         data,
		CreatedAt:    now,
		TTL:          ttl,
		LastAccessed: now,
	}
}

// Valid reports whether the entry is live at now: now - CreatedAt < TTL.
// A TTL of zero or less is never valid, so such an entry can be stored but
// never read back. Validity is checked lazily, on reads and sweeps; nothing
// eagerly deletes an entry the moment its TTL elapses.
func (e *Entry[T]) Valid(now time.Time) bool {
	return now.Sub(e.CreatedAt) < e.TTL
}

// Touch records a successful read: bumps AccessCount and refreshes
// LastAccessed, which is the LRU ordering key.
func (e *Entry[T]) Touch(now time.Time) {
	e.AccessCount++
	e.LastAccessed = now
}

// ExpiresAt returns the instant after which the entry stops being valid.
func (e *Entry[T]) ExpiresAt() time.Time {
	return e.CreatedAt.Add(e.TTL)
}
