package media

import (
	"context"
	"sync"
)

// Compile-time check that MemoryRegistry implements Registry.
var _ Registry = (*MemoryRegistry)(nil)

// MemoryRegistry is an in-memory implementation of Registry.
// Entries live as long as the process; there is no persistence across restarts.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]*Entry),
	}
}

// Save stores a clone of entry so later mutations by the caller are not visible.
func (r *MemoryRegistry) Save(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry.Clone()
	return nil
}

// FindByID returns a clone of the stored entry.
func (r *MemoryRegistry) FindByID(_ context.Context, id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return entry.Clone(), nil
}

// Len returns the number of registered entries.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
