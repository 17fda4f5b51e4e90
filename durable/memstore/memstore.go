// Package memstore provides an in-process durable.Store. It backs the demo
// binary when no real backend is configured and gives tests a store whose
// traffic and failures can be observed and injected.
package memstore

import (
	"context"
	"sync"
)

// Store is a mutex-guarded map of key to record bytes. Records are copied on
// the way in and out so callers cannot alias the stored slices.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// failWith, when set, is returned by every operation. Used by tests to
	// simulate an unavailable backend.
	failWith error

	gets, puts int
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failWith != nil {
		return s.failWith
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	s.data[key] = buf
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failWith != nil {
		return nil, false, s.failWith
	}
	raw, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return buf, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.data = make(map[string][]byte)
	return nil
}

// FailWith makes every subsequent operation return err. Pass nil to restore
// normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Gets returns how many Get calls the store has served, including failures.
func (s *Store) Gets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets
}

// Puts returns how many Put calls the store has served, including failures.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Corrupt overwrites the record for key with arbitrary bytes, bypassing the
// cache's serialization. Tests use this to exercise the corrupted-record
// path.
func (s *Store) Corrupt(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
}
