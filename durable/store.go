// Package durable defines the narrow contract the cache requires from a
// persistent key-value backend. The cache owns the record schema; the store
// only ever sees opaque bytes keyed by string.
package durable

import "context"

// Store is implemented by platform-specific persistent backends (an embedded
// database, a cloud key-value table, a filesystem directory). All operations
// take a context because store calls are the only suspension points in the
// cache: they may block on I/O and should honor cancellation.
//
// Implementations report failures as errors; the cache treats every failure
// as "record absent" and never surfaces it to its own callers.
type Store interface {
	// Put writes value under key, overwriting any previous record.
	Put(ctx context.Context, key string, value []byte) error

	// Get returns the record for key. The second result is false when no
	// record exists; that is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Delete removes the record for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Clear removes every record.
	Clear(ctx context.Context) error
}
