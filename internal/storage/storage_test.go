package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/n1rna/fossflow-cli/internal/config"
)

type storeFactory func(t *testing.T, capacity int64) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, capacity int64) Store {
			return NewMemoryStore(capacity)
		},
		"file": func(t *testing.T, capacity int64) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "storage"), capacity)
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T, capacity int64) Store {
			s, err := OpenSQLiteMemory(capacity)
			if err != nil {
				t.Fatalf("OpenSQLiteMemory: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t, 0)

			if _, ok, err := s.Get(DiagramsKey); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}

			if err := s.Set(DiagramsKey, "[]"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(LastOpenedKey, "abc"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(DiagramsKey, `[{"id":"1"}]`); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			v, ok, err := s.Get(DiagramsKey)
			if err != nil || !ok || v != `[{"id":"1"}]` {
				t.Errorf("Get = %q, %v, %v", v, ok, err)
			}

			keys, err := s.Keys()
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			want := []string{DiagramsKey, LastOpenedKey}
			if !reflect.DeepEqual(keys, want) {
				t.Errorf("Keys = %v, want %v", keys, want)
			}

			if err := s.Remove(LastOpenedKey); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := s.Remove("never-set"); err != nil {
				t.Errorf("removing a missing key should not fail: %v", err)
			}
			if _, ok, _ := s.Get(LastOpenedKey); ok {
				t.Error("expected key to be removed")
			}
		})
	}
}

func TestStoreCapacity(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t, 10)

			if err := s.Set("a", "12345678"); err != nil {
				t.Fatalf("Set within capacity: %v", err)
			}
			err := s.Set("b", "123")
			if !errors.Is(err, ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}

			// Replacing a value counts only the difference.
			if err := s.Set("a", "1234567890"); err != nil {
				t.Errorf("replacing within capacity: %v", err)
			}
			if err := s.Set("a", "12345678901"); !errors.Is(err, ErrQuotaExceeded) {
				t.Errorf("expected ErrQuotaExceeded, got %v", err)
			}
			if v, _, _ := s.Get("a"); v != "1234567890" {
				t.Errorf("failed write must keep previous value, got %q", v)
			}
		})
	}
}

func TestFileStorePersistsIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage")

	s, err := NewFileStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(DiagramsKey, "[]"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, indexFile)); err != nil {
		t.Fatalf("expected index.json: %v", err)
	}

	reopened, err := NewFileStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := reopened.Get(DiagramsKey)
	if err != nil || !ok || v != "[]" {
		t.Errorf("reopened Get = %q, %v, %v", v, ok, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var valueFiles int
	for _, e := range entries {
		if e.Name() != indexFile && strings.HasSuffix(e.Name(), fileExtension) {
			valueFiles++
		}
	}
	if valueFiles != 1 {
		t.Errorf("expected 1 value file, got %d", valueFiles)
	}

	if err := reopened.Remove(DiagramsKey); err != nil {
		t.Fatal(err)
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only index.json after remove, got %d entries", len(entries))
	}
}

func TestSQLiteStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "fossflow.db")
	s, err := OpenSQLite(path, 0)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Set(DiagramsKey, "[]"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := OpenSQLite(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if v, ok, _ := reopened.Get(DiagramsKey); !ok || v != "[]" {
		t.Errorf("expected persisted value, got %q %v", v, ok)
	}
}

func TestOpenBackends(t *testing.T) {
	for _, backend := range []config.Backend{config.BackendFile, config.BackendSQLite, config.BackendMemory} {
		cfg := config.DefaultConfig()
		cfg.BaseDir = t.TempDir()
		cfg.Backend = backend

		s, err := Open(cfg)
		if err != nil {
			t.Fatalf("Open(%s): %v", backend, err)
		}
		if err := s.Set(TempDataKey, "x"); err != nil {
			t.Errorf("Set on %s: %v", backend, err)
		}
		s.Close()
	}

	cfg := config.DefaultConfig()
	cfg.Backend = "redis"
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestAccessorEvictsExpendableKeysOnQuota(t *testing.T) {
	store := NewMemoryStore(20)
	a := NewAccessor(store)

	if !a.Write(LastOpenedDataKey, "0123456789") {
		t.Fatal("initial write failed")
	}
	if !a.Write(TempDataKey, "01234") {
		t.Fatal("initial write failed")
	}

	if !a.Write(DiagramsKey, "0123456789") {
		t.Fatal("expected write to succeed after eviction")
	}
	if _, ok := a.Read(LastOpenedDataKey); ok {
		t.Error("expected last-opened-data to be evicted")
	}
	if _, ok := a.Read(TempDataKey); ok {
		t.Error("expected temp-data to be evicted")
	}
	if v, ok := a.Read(DiagramsKey); !ok || v != "0123456789" {
		t.Errorf("Read = %q, %v", v, ok)
	}
}

func TestAccessorNeverEvictsTargetKey(t *testing.T) {
	store := NewMemoryStore(10)
	a := NewAccessor(store)

	if !a.Write(LastOpenedDataKey, "0123456789") {
		t.Fatal("initial write failed")
	}
	// Replacing the key with a larger value cannot be helped by evicting
	// other keys, and the key itself must survive.
	if a.Write(LastOpenedDataKey, "0123456789A") {
		t.Fatal("expected write to fail")
	}
	if v, ok := a.Read(LastOpenedDataKey); !ok || v != "0123456789" {
		t.Errorf("target key must keep its value, got %q %v", v, ok)
	}
}

func TestAccessorFailsWhenEvictionIsNotEnough(t *testing.T) {
	store := NewMemoryStore(5)
	a := NewAccessor(store)

	if a.Write(DiagramsKey, "0123456789") {
		t.Fatal("expected write to fail")
	}
	if _, ok := a.Read(DiagramsKey); ok {
		t.Error("nothing should be stored")
	}
}

type brokenStore struct{ MemoryStore }

func (b *brokenStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (b *brokenStore) Set(string, string) error         { return errors.New("disk gone") }
func (b *brokenStore) Remove(string) error              { return errors.New("disk gone") }

func TestAccessorSwallowsStoreErrors(t *testing.T) {
	a := NewAccessor(&brokenStore{})

	if a.Write(DiagramsKey, "[]") {
		t.Error("expected write to report failure")
	}
	if _, ok := a.Read(DiagramsKey); ok {
		t.Error("read failures must be treated as absent")
	}
	if a.Remove(DiagramsKey) {
		t.Error("expected remove to report failure")
	}
}
