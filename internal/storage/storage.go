// Package storage keeps per-session chat state in memory.
package storage

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lehigh-university-libraries/partsdesk/internal/cart"
	"github.com/lehigh-university-libraries/partsdesk/internal/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

// Session is the state owned by one conversation. Its fields are only
// touched inside SessionStore.WithSession.
type Session struct {
	ID            string
	Cart          *cart.Cart
	LastShownPart *models.Part
	CreatedAt     time.Time
	LastSeen      time.Time

	mu sync.Mutex
}

type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return ulid.Make().String()
}

// GetOrCreate returns the session for id, creating it if needed. An empty
// id gets a new identifier.
func (s *SessionStore) GetOrCreate(id string) *Session {
	if id == "" {
		id = NewID()
	}

	s.mu.RLock()
	session, exists := s.sessions[id]
	s.mu.RUnlock()
	if exists {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, exists := s.sessions[id]; exists {
		return session
	}
	now := time.Now().UTC()
	session = &Session{ID: id, Cart: cart.New(), CreatedAt: now, LastSeen: now}
	s.sessions[id] = session
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return session
}

func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// WithSession runs fn while holding the session's lock, so cart mutations
// and last-shown-part updates for one session never interleave.
func (s *SessionStore) WithSession(id string, fn func(*Session) error) (string, error) {
	session := s.GetOrCreate(id)
	session.mu.Lock()
	defer session.mu.Unlock()
	session.LastSeen = time.Now().UTC()
	return session.ID, fn(session)
}

// ReadSession runs fn under the lock of an existing session. It reports
// false, without creating anything, when the session is unknown.
func (s *SessionStore) ReadSession(id string, fn func(*Session)) bool {
	session, ok := s.Get(id)
	if !ok {
		return false
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	fn(session)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
}

// Expire deletes sessions idle since before cutoff and returns how many
// were removed.
func (s *SessionStore) Expire(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := session.LastSeen.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return removed
}
