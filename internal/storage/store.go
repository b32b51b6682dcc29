// Package storage provides the origin-scoped key-value stores that hold
// diagrams, and the Accessor that writes to them with quota recovery.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/n1rna/fossflow-cli/internal/config"
)

// ErrQuotaExceeded is returned by a Store when a write would take the total
// stored value bytes past its capacity.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage keys used by fossflow.
const (
	KeyPrefix         = "fossflow-"
	DiagramsKey       = "fossflow-diagrams"
	LastOpenedKey     = "fossflow-last-opened"
	LastOpenedDataKey = "fossflow-last-opened-data"
	TempDataKey       = "fossflow-temp-data"
)

// ExpendableKeys may be evicted to make room when a write hits the quota.
var ExpendableKeys = []string{LastOpenedDataKey, TempDataKey}

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Keys returns every stored key in sorted order.
	Keys() ([]string, error)
	Close() error
}

// checkCapacity reports ErrQuotaExceeded when replacing a value of oldSize
// bytes with one of newSize bytes would exceed capacity. Zero capacity means
// unlimited.
func checkCapacity(capacity, used, oldSize, newSize int64) error {
	if capacity <= 0 {
		return nil
	}
	if used-oldSize+newSize > capacity {
		return fmt.Errorf("%w: %d of %d bytes used, write needs %d", ErrQuotaExceeded, used, capacity, newSize)
	}
	return nil
}

// Open creates the store selected by cfg.Backend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(cfg.CapacityBytes), nil
	case config.BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.BaseDir, "fossflow.db"), cfg.CapacityBytes)
	case config.BackendFile, "":
		return NewFileStore(filepath.Join(cfg.BaseDir, "storage"), cfg.CapacityBytes)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
