package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when an id does not resolve to a stored record.
var ErrNotFound = errors.New("record not found")

// Collection names used by the file-backed record store.
const (
	CollectionUsers         = "users"
	CollectionShipments     = "shipments"
	CollectionOrders        = "orders"
	CollectionVehicles      = "vehicles"
	CollectionNotifications = "notifications"
)

// FileDB stores each collection as a JSON array in its own file. Every write
// rewrites the whole collection file, so cross-record changes within one
// collection are last-write-wins; a per-collection mutex keeps each single
// read-modify-write call atomic.
type FileDB struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileDB creates the data directory if needed and returns a store handle.
func NewFileDB(dir string) (*FileDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileDB{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Lock acquires the collection mutex and returns the unlock func.
func (db *FileDB) Lock(collection string) func() {
	db.mu.Lock()
	lock, ok := db.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		db.locks[collection] = lock
	}
	db.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (db *FileDB) path(collection string) string {
	return filepath.Join(db.dir, collection+".json")
}

// Read loads all records of a collection. A missing file reads as an empty
// collection.
func Read[T any](db *FileDB, collection string) ([]T, error) {
	data, err := os.ReadFile(db.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return items, nil
}

// Write replaces the whole collection file.
func Write[T any](db *FileDB, collection string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := os.WriteFile(db.path(collection), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

// NextID allocates the next record id as max(id)+1, starting at 1.
func NextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
