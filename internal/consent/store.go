// ABOUTME: ConsentStore persists the set of users who granted consent
// ABOUTME: In-memory mirror plus JSON file, every mutation atomic and locked
package consent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store owns both the in-memory consent set and its durable backing
// file. All reads and read-modify-write cycles take the same lock;
// consent is privacy-sensitive, so strict consistency wins over
// throughput here.
type Store struct {
	path string

	mu    sync.Mutex
	users map[int64]struct{}
}

// Open loads the consent set from path. A missing file means an empty
// set; a corrupted file is a load error.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating consent store directory: %w", err)
	}

	s := &Store{path: path, users: make(map[int64]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading consent store: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("consent store file is corrupted: %w", err)
	}
	for _, id := range ids {
		s.users[id] = struct{}{}
	}
	return s, nil
}

// Has reports whether the user has granted consent.
func (s *Store) Has(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	return ok
}

// Add records consent for the user and persists the set.
func (s *Store) Add(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
	return s.persist()
}

// Remove revokes consent for the user if present and persists the set.
func (s *Store) Remove(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return s.persist()
}

// All returns the consented user ids in ascending order.
func (s *Store) All() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted()
}

func (s *Store) sorted() []int64 {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// persist writes the set to a temp file and renames it over the store
// file. Callers must hold the lock.
func (s *Store) persist() error {
	data, err := json.Marshal(s.sorted())
	if err != nil {
		return fmt.Errorf("encoding consent store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing consent store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing consent store: %w", err)
	}
	return nil
}
