package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	indexFile     = "index.json"
	fileExtension = ".json"
)

// IndexEntry locates one stored value on disk.
type IndexEntry struct {
	File      string    `json:"file"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Index maps keys to their value files. It is persisted as index.json next
// to the value files.
type Index struct {
	Entries map[string]IndexEntry `json:"entries"`
}

// NewIndex creates a new empty index
func NewIndex() *Index {
	return &Index{Entries: make(map[string]IndexEntry)}
}

// Used returns the total size of all indexed values.
func (idx *Index) Used() int64 {
	var total int64
	for _, e := range idx.Entries {
		total += e.Size
	}
	return total
}

// FileStore keeps one file per key under a directory, with an index.json
// resolving key to file name and size.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	capacity int64
	index    *Index
}

// NewFileStore opens (or initializes) a file store rooted at dir.
func NewFileStore(dir string, capacity int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	s := &FileStore{dir: dir, capacity: capacity}
	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	s.index = index
	return s, nil
}

func (s *FileStore) indexPath() string {
	return filepath.Join(s.dir, indexFile)
}

func (s *FileStore) valuePath(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) loadIndex() (*Index, error) {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return NewIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	if index.Entries == nil {
		index.Entries = make(map[string]IndexEntry)
	}
	return &index, nil
}

func (s *FileStore) saveIndex(index *Index) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := writeFileAtomic(s.indexPath(), data); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index.Entries[key]
	if !ok {
		return "", false, nil
	}
	data, err := os.ReadFile(s.valuePath(entry.File))
	if err != nil {
		return "", false, fmt.Errorf("failed to read value for %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.index.Entries[key]
	size := int64(len(value))
	if err := checkCapacity(s.capacity, s.index.Used(), entry.Size, size); err != nil {
		return err
	}

	if !exists {
		entry.File = uuid.New().String() + fileExtension
	}
	if err := writeFileAtomic(s.valuePath(entry.File), []byte(value)); err != nil {
		return fmt.Errorf("failed to write value for %s: %w", key, err)
	}

	entry.Size = size
	entry.UpdatedAt = time.Now().UTC()

	next := &Index{Entries: maps.Clone(s.index.Entries)}
	next.Entries[key] = entry
	if err := s.saveIndex(next); err != nil {
		if !exists {
			os.Remove(s.valuePath(entry.File))
		}
		return err
	}
	s.index = next
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index.Entries[key]
	if !ok {
		return nil
	}

	next := &Index{Entries: maps.Clone(s.index.Entries)}
	delete(next.Entries, key)
	if err := s.saveIndex(next); err != nil {
		return err
	}
	s.index = next

	if err := os.Remove(s.valuePath(entry.File)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete value for %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.index.Entries)), nil
}

func (s *FileStore) Close() error { return nil }

// writeFileAtomic writes through a temp file and rename so a crash never
// leaves a half-written value behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
