// ABOUTME: Tests for the consent store persistence and locking
// ABOUTME: Verifies atomic writes, reopen durability, and corruption errors
package consent

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data", "consents.json")
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(storePath(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := s.All(); len(got) != 0 {
		t.Errorf("All = %v, want empty", got)
	}
}

func TestAddRemoveHas(t *testing.T) {
	s, err := Open(storePath(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if s.Has(42) {
		t.Error("Has(42) before Add = true")
	}
	if err := s.Add(42); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !s.Has(42) {
		t.Error("Has(42) after Add = false")
	}
	if err := s.Remove(42); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Has(42) {
		t.Error("Has(42) after Remove = true")
	}

	// Removing an absent id is not an error.
	if err := s.Remove(99); err != nil {
		t.Errorf("Remove absent id: %v", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := storePath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, id := range []int64{300, 100, 200} {
		if err := s.Add(id); err != nil {
			t.Fatalf("Add(%d): %v", id, err)
		}
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.All()
	want := []int64{100, 200, 300}
	if len(got) != len(want) {
		t.Fatalf("All = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All[%d] = %d, want %d (sorted)", i, got[i], want[i])
		}
	}
}

func TestWriteIsAtomic(t *testing.T) {
	path := storePath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Add(1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file must not survive a persist: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	if string(data) != "[1]" {
		t.Errorf("store file = %q, want [1]", data)
	}
}

func TestCorruptedFileFailsToLoad(t *testing.T) {
	path := storePath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for corrupted consent store")
	}
}

func TestConcurrentMutations(t *testing.T) {
	s, err := Open(storePath(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.Add(id); err != nil {
				t.Errorf("Add(%d): %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(s.All()); got != 20 {
		t.Errorf("len(All) = %d, want 20", got)
	}
}
