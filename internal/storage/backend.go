package storage

// Backend is the durable key-value store behind editor preferences.
//
// Implementations hold whatever exclusive resources they need (for example a
// file lock) from construction until Close.
type Backend interface {
	// Get returns the value stored under key.
	// It MUST return ("", false, nil) if the key does not exist.
	Get(key string) (string, bool, error)

	// Set persists value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists all stored keys in ascending order.
	Keys() ([]string, error)

	// Close releases backend resources, such as file locks.
	Close() error
}
