package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"
)

// FileSystemBackend implements Backend using a single JSON document on the
// local file system.
type FileSystemBackend struct {
	mu       sync.Mutex
	storeID  string
	lockFile *os.File
	doc      *Document
}

// NewFileSystemBackend creates a new file system storage backend.
// It acquires an exclusive lock on the store to prevent concurrent access,
// then loads the existing document (if any).
func NewFileSystemBackend(storeID string) (*FileSystemBackend, error) {
	if storeID == "" {
		return nil, fmt.Errorf("storeID cannot be empty")
	}

	// Ensure the store directory exists
	storeDir, err := storeDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get store directory: %w", err)
	}
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// Acquire exclusive lock on the store
	lockPath, err := storeLockFilePath(storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lock file path: %w", err)
	}

	lockFile, err := acquireFileLock(lockPath)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}

	backend := &FileSystemBackend{
		storeID:  storeID,
		lockFile: lockFile,
	}

	doc, err := backend.load()
	if err != nil {
		_ = releaseFileLock(lockFile)
		return nil, err
	}
	backend.doc = doc

	return backend, nil
}

// load reads the document from disk, returning a fresh document if the file
// does not exist or was written by an incompatible schema version.
func (b *FileSystemBackend) load() (*Document, error) {
	storePath, err := storeFilePath(b.storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get store file path: %w", err)
	}

	data, err := os.ReadFile(storePath)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(b.storeID), nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store: %w", err)
	}

	if doc.Version != currentSchemaVersion {
		slog.Warn("store schema version mismatch, starting fresh",
			"store", b.storeID, "expected", currentSchemaVersion, "got", doc.Version)
		return newDocument(b.storeID), nil
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	doc.StoreID = b.storeID

	return &doc, nil
}

// Get returns the value stored under key.
func (b *FileSystemBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.doc == nil {
		return "", false, fmt.Errorf("store %q is closed", b.storeID)
	}
	value, ok := b.doc.Entries[key]
	return value, ok, nil
}

// Set atomically persists the whole document with key updated.
// On failure the in-memory document is left as it was before the call.
func (b *FileSystemBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.doc == nil {
		return fmt.Errorf("store %q is closed", b.storeID)
	}

	previous, existed := b.doc.Entries[key]
	b.doc.Entries[key] = value
	if err := b.persist(); err != nil {
		if existed {
			b.doc.Entries[key] = previous
		} else {
			delete(b.doc.Entries, key)
		}
		return err
	}
	return nil
}

// Delete removes key and persists the document.
func (b *FileSystemBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.doc == nil {
		return fmt.Errorf("store %q is closed", b.storeID)
	}

	previous, existed := b.doc.Entries[key]
	if !existed {
		return nil
	}
	delete(b.doc.Entries, key)
	if err := b.persist(); err != nil {
		b.doc.Entries[key] = previous
		return err
	}
	return nil
}

// Keys lists all stored keys in ascending order.
func (b *FileSystemBackend) Keys() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.doc == nil {
		return nil, fmt.Errorf("store %q is closed", b.storeID)
	}
	keys := make([]string, 0, len(b.doc.Entries))
	for k := range b.doc.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// persist writes the document to disk. Must be called with b.mu held.
func (b *FileSystemBackend) persist() error {
	storePath, err := storeFilePath(b.storeID)
	if err != nil {
		return fmt.Errorf("failed to get store file path: %w", err)
	}

	b.doc.Version = currentSchemaVersion
	b.doc.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(b.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := AtomicWriteFile(storePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}

// Close releases the store lock. Further calls fail.
func (b *FileSystemBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.doc = nil
	if b.lockFile == nil {
		return nil
	}

	if err := releaseFileLock(b.lockFile); err != nil {
		return fmt.Errorf("failed to release store lock: %w", err)
	}

	b.lockFile = nil
	return nil
}

// Ensure FileSystemBackend implements Backend at compile time
var _ Backend = (*FileSystemBackend)(nil)
