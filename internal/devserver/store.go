package devserver

import (
	"sync"

	"github.com/iksnae/newschat/internal"
)

// Store keeps session histories in memory
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]internal.Turn
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sessions: make(map[string][]internal.Turn)}
}

// History returns a copy of the turns held for sessionID
func (s *Store) History(sessionID string) []internal.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]internal.Turn{}, s.sessions[sessionID]...)
}

// Append adds turns to the end of a session, creating it if needed
func (s *Store) Append(sessionID string, turns ...internal.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turns...)
}

// Reset discards a session. It reports whether the session existed.
func (s *Store) Reset(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}

// Len returns the number of sessions held
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
