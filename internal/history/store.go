// ABOUTME: Per-user bounded conversation history, in-memory only
// ABOUTME: Oldest turns evicted past the limit; cleared on dialog resets
package history

import (
	"sync"

	"legalbot/internal/models"
)

// Store keeps a bounded turn sequence per user id. Concurrent messages
// from the same user serialize on the store mutex; appends are
// last-write-wins in arrival order.
type Store struct {
	mu    sync.Mutex
	limit int
	turns map[int64][]models.Turn
}

// NewStore creates a history store keeping at most limit turns per user.
// A non-positive limit keeps nothing.
func NewStore(limit int) *Store {
	return &Store{limit: limit, turns: make(map[int64][]models.Turn)}
}

// Append adds a turn to the user's history, evicting the oldest entries
// once the limit is exceeded.
func (s *Store) Append(userID int64, turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit <= 0 {
		return
	}
	turns := append(s.turns[userID], turn)
	if len(turns) > s.limit {
		turns = turns[len(turns)-s.limit:]
	}
	s.turns[userID] = turns
}

// Turns returns a copy of the user's history in chronological order.
func (s *Store) Turns(userID int64) []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.turns[userID]
	if len(turns) == 0 {
		return nil
	}
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear drops the user's history.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, userID)
}
