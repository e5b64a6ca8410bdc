package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const storeFileSuffix = ".store.json"

// StoreInfo holds lightweight metadata for a store file discovered on disk.
type StoreInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	LockPath  string    `json:"lockPath"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsActive  bool      `json:"isActive"`
}

// ScanStores inspects the configured store directory and returns a
// StoreInfo for each store file it finds, sorted by ID.
func ScanStores() ([]StoreInfo, error) {
	dir, err := storeDirectory()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []StoreInfo{}, nil
		}
		return nil, err
	}

	out := make([]StoreInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, storeFileSuffix) {
			continue
		}

		id := strings.TrimSuffix(name, storeFileSuffix)
		path := filepath.Join(dir, name)

		fi, err := os.Stat(path)
		if err != nil {
			continue
		}

		lockPath, _ := storeLockFilePath(id)
		// On a lock check error, still include with IsActive=false.
		active, _ := lockHeld(lockPath)

		out = append(out, StoreInfo{
			ID:        id,
			Path:      path,
			LockPath:  lockPath,
			Size:      fi.Size(),
			UpdatedAt: fi.ModTime(),
			IsActive:  active,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
