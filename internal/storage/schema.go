package storage

import (
	"time"
)

const currentSchemaVersion = "1.0.0"

// Document is the on-disk representation of a store.
// This is the top-level object serialized to a file.
type Document struct {
	Version   string            `json:"version"`    // Schema version, for forward-compatibility and migration logic.
	StoreID   string            `json:"store_id"`   // Name of the store, also the file name stem.
	CreatedAt time.Time         `json:"created_at"` // Timestamp of store creation.
	UpdatedAt time.Time         `json:"updated_at"` // Timestamp of the last write.
	Entries   map[string]string `json:"entries"`    // The stored key-value pairs.
}

func newDocument(storeID string) *Document {
	now := time.Now()
	return &Document{
		Version:   currentSchemaVersion,
		StoreID:   storeID,
		CreatedAt: now,
		UpdatedAt: now,
		Entries:   make(map[string]string),
	}
}
