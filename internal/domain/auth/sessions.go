package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type sessionEntry struct {
	identity  *Identity
	expiresAt time.Time
}

// SessionStore keeps authenticated identities in memory, keyed by the hash of
// an opaque session id. The identity's permission set was materialized at
// login; lookups hand it back unchanged.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Create stores the identity and returns the opaque session id handed to the
// client inside its token.
func (s *SessionStore) Create(identity *Identity) (string, error) {
	id, err := generateSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.sessions[HashToken(id)] = sessionEntry{identity: identity, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

func (s *SessionStore) Get(sessionID string) (*Identity, bool) {
	key := HashToken(sessionID)
	s.mu.RLock()
	entry, ok := s.sessions[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry.identity, true
}

// Revoke clears the session synchronously. There are no in-flight
// authorization operations to cancel; every evaluator check is synchronous.
func (s *SessionStore) Revoke(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, HashToken(sessionID))
	s.mu.Unlock()
}

func generateSessionID() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
