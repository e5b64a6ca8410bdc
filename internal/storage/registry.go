package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultStoreID names the store used for editor preferences.
const DefaultStoreID = "editor"

// ErrUnknownBackend reports a backend name with no registered factory.
var ErrUnknownBackend = errors.New("unknown storage backend")

// BackendFactory is a function that creates a new Backend instance.
type BackendFactory func(storeID string) (Backend, error)

// BackendRegistry maps backend names to their factory functions.
var BackendRegistry = make(map[string]BackendFactory)

func init() {
	// Register the file system backend as the default
	BackendRegistry["fs"] = func(storeID string) (Backend, error) {
		return NewFileSystemBackend(storeID)
	}

	// Register an in-memory backend for testing
	BackendRegistry["memory"] = func(storeID string) (Backend, error) {
		return NewInMemoryBackend(storeID)
	}
}

// GetBackend retrieves a backend by name and creates an instance.
func GetBackend(name, storeID string) (Backend, error) {
	factory, ok := BackendRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownBackend, name, strings.Join(BackendNames(), ", "))
	}
	return factory(storeID)
}

// BackendNames returns the registered backend names, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(BackendRegistry))
	for name := range BackendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
