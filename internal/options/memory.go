package options

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
)

// MemoryStore is an in-process Store for tests and local tooling.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]StoredValue
	writes int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]StoredValue)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (StoredValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return StoredValue{}, fmt.Errorf("option %q: %w", key, domain.ErrNotFound)
	}
	return StoredValue{Raw: append([]byte(nil), v.Raw...), Revision: v.Revision}, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, raw []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.put(key, raw), nil
}

// CompareAndSet implements Store.
func (m *MemoryStore) CompareAndSet(_ context.Context, key string, raw []byte, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[key].Revision != expected {
		return 0, fmt.Errorf("option %q at revision %d: %w", key, expected, domain.ErrRevisionConflict)
	}
	return m.put(key, raw), nil
}

// Writes returns the number of successful writes.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryStore) put(key string, raw []byte) int64 {
	rev := m.values[key].Revision + 1
	m.values[key] = StoredValue{Raw: append([]byte(nil), raw...), Revision: rev}
	m.writes++
	return rev
}
