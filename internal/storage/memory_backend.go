package storage

import (
	"fmt"
	"sort"
	"sync"
)

// InMemoryBackend implements Backend using process memory (for testing and
// for environments without a writable config directory).
type InMemoryBackend struct {
	storeID string
}

// Global in-memory storage shared across all instances, keyed by store ID,
// so that reopening a store within one process sees earlier writes.
var globalInMemoryStore = struct {
	sync.RWMutex
	stores map[string]map[string]string
}{
	stores: make(map[string]map[string]string),
}

// NewInMemoryBackend creates a new in-memory storage backend.
func NewInMemoryBackend(storeID string) (*InMemoryBackend, error) {
	if storeID == "" {
		return nil, fmt.Errorf("storeID cannot be empty")
	}

	globalInMemoryStore.Lock()
	if globalInMemoryStore.stores[storeID] == nil {
		globalInMemoryStore.stores[storeID] = make(map[string]string)
	}
	globalInMemoryStore.Unlock()

	return &InMemoryBackend{storeID: storeID}, nil
}

// Get returns the value stored under key.
func (b *InMemoryBackend) Get(key string) (string, bool, error) {
	globalInMemoryStore.RLock()
	defer globalInMemoryStore.RUnlock()

	value, ok := globalInMemoryStore.stores[b.storeID][key]
	return value, ok, nil
}

// Set stores value under key.
func (b *InMemoryBackend) Set(key, value string) error {
	globalInMemoryStore.Lock()
	defer globalInMemoryStore.Unlock()

	entries := globalInMemoryStore.stores[b.storeID]
	if entries == nil {
		entries = make(map[string]string)
		globalInMemoryStore.stores[b.storeID] = entries
	}
	entries[key] = value
	return nil
}

// Delete removes key.
func (b *InMemoryBackend) Delete(key string) error {
	globalInMemoryStore.Lock()
	defer globalInMemoryStore.Unlock()

	delete(globalInMemoryStore.stores[b.storeID], key)
	return nil
}

// Keys lists all stored keys in ascending order.
func (b *InMemoryBackend) Keys() ([]string, error) {
	globalInMemoryStore.RLock()
	defer globalInMemoryStore.RUnlock()

	entries := globalInMemoryStore.stores[b.storeID]
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases any resources (no-op for in-memory backend).
func (b *InMemoryBackend) Close() error {
	return nil
}

// Ensure InMemoryBackend implements Backend at compile time
var _ Backend = (*InMemoryBackend)(nil)
