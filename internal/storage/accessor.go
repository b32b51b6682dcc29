package storage

import (
	"errors"

	"github.com/n1rna/fossflow-cli/internal/logger"
)

// Accessor wraps a Store with the never-failing read/write contract the
// shell relies on: failures are logged and reported as bool/absent.
type Accessor struct {
	store      Store
	expendable []string
}

// NewAccessor wraps store, evicting ExpendableKeys on quota failures.
func NewAccessor(store Store) *Accessor {
	return &Accessor{store: store, expendable: ExpendableKeys}
}

// Store returns the underlying store.
func (a *Accessor) Store() Store {
	return a.store
}

// Write stores value under key. On a quota failure it evicts every
// expendable key other than key and retries exactly once.
func (a *Accessor) Write(key, value string) bool {
	err := a.store.Set(key, value)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		logger.Error("failed to write %s: %v", key, err)
		return false
	}

	logger.Warn("quota exceeded writing %s, evicting expendable keys", key)
	for _, k := range a.expendable {
		if k == key {
			continue
		}
		if err := a.store.Remove(k); err != nil {
			logger.Error("failed to evict %s: %v", k, err)
		}
	}

	if err := a.store.Set(key, value); err != nil {
		logger.Error("failed to write %s after eviction: %v", key, err)
		return false
	}
	return true
}

// Read returns the value for key. Read failures are reported as absent.
func (a *Accessor) Read(key string) (string, bool) {
	v, ok, err := a.store.Get(key)
	if err != nil {
		logger.Error("failed to read %s: %v", key, err)
		return "", false
	}
	return v, ok
}

// Remove deletes key, reporting whether it succeeded.
func (a *Accessor) Remove(key string) bool {
	if err := a.store.Remove(key); err != nil {
		logger.Error("failed to remove %s: %v", key, err)
		return false
	}
	return true
}
