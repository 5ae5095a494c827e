// Package options persists keyed site configuration values.
package options

import "context"

// StoredValue is a persisted option with its revision.
// Revision starts at 1 and increases by one on every write.
type StoredValue struct {
	Raw      []byte
	Revision int64
}

// Store reads and writes option values by key.
type Store interface {
	// Get returns domain.ErrNotFound when key has never been written.
	Get(ctx context.Context, key string) (StoredValue, error)
	// Set replaces the value unconditionally and returns the new revision.
	Set(ctx context.Context, key string, raw []byte) (int64, error)
	// CompareAndSet replaces the value only if the stored revision equals expected.
	// An expected revision of 0 means the key must not exist yet.
	// A mismatch returns domain.ErrRevisionConflict.
	CompareAndSet(ctx context.Context, key string, raw []byte, expected int64) (int64, error)
}
