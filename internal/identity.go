package internal

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultSessionKey is the durable slot that holds the session id
const DefaultSessionKey = "voosh_session"

// IdentityStore owns the client's session id. It reads and writes exactly one
// slot of a KVStore. When the store is missing or failing it keeps an
// in-memory id for the rest of the process instead.
type IdentityStore struct {
	mu       sync.Mutex
	kv       KVStore
	key      string
	newID    func() string
	current  string
	degraded bool
}

// IdentityOption configures an IdentityStore
type IdentityOption func(*IdentityStore)

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(fn func() string) IdentityOption {
	return func(s *IdentityStore) {
		s.newID = fn
	}
}

// NewIdentityStore creates a store over kv. A nil kv gives an ephemeral store.
func NewIdentityStore(kv KVStore, key string, opts ...IdentityOption) *IdentityStore {
	if key == "" {
		key = DefaultSessionKey
	}
	s := &IdentityStore{
		kv:       kv,
		key:      key,
		newID:    uuid.NewString,
		degraded: kv == nil,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the persisted session id, minting and persisting one if
// none exists. It never mints a second id while one is held.
func (s *IdentityStore) Resolve() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv == nil {
		return s.ephemeralLocked()
	}

	// the held id is the active one once a write failed; the slot may still
	// carry an id that was rotated away
	if s.degraded && s.current != "" {
		s.persistLocked(s.current)
		return s.current
	}

	id, ok, err := s.kv.Get(s.key)
	if err != nil {
		LogWarn("Session store unavailable, using in-memory session id: %v", err)
		s.degraded = true
		return s.ephemeralLocked()
	}
	if ok && id != "" {
		s.current = id
		return id
	}

	// a previous write may have failed; retry persisting the id we already hold
	if s.current == "" {
		s.current = s.newID()
		LogDebug("Minted session id %s", s.current)
	}
	s.persistLocked(s.current)
	return s.current
}

// Rotate discards the persisted id and replaces it with a fresh one
func (s *IdentityStore) Rotate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current
	s.current = s.newID()

	if s.kv != nil {
		if err := s.kv.Delete(s.key); err != nil {
			LogWarn("Failed to discard session id %s: %v", old, err)
		}
		s.persistLocked(s.current)
	}

	LogDebug("Rotated session id %s -> %s", old, s.current)
	return s.current
}

// Current returns the id last resolved or rotated, without touching storage
func (s *IdentityStore) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Degraded reports whether the id is held in memory only
func (s *IdentityStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *IdentityStore) ephemeralLocked() string {
	if s.current == "" {
		s.current = s.newID()
	}
	return s.current
}

func (s *IdentityStore) persistLocked(id string) {
	if err := s.kv.Set(s.key, id); err != nil {
		LogWarn("Failed to persist session id, continuing in memory: %v", err)
		s.degraded = true
		return
	}
	s.degraded = false
}
