package handlers

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kosarica/feed-service/internal/configurator"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTTL bounds how long an idle wizard session is kept
const DefaultSessionTTL = 2 * time.Hour

// feedSession is one operator's wizard run. The configurator session is not
// safe for concurrent use, so every access holds mu.
type feedSession struct {
	mu       sync.Mutex
	id       string
	filename string
	session  *configurator.MappingSession
	touched  time.Time
}

// SessionStore keeps wizard sessions in memory keyed by a UUID
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*feedSession
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose idle sessions expire after ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*feedSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a session and returns its id
func (s *SessionStore) Create(session *configurator.MappingSession, filename string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &feedSession{
		id:       id,
		filename: filename,
		session:  session,
		touched:  s.now(),
	}
	return id
}

// Get returns a live session and refreshes its expiry
func (s *SessionStore) Get(id string) (*feedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if now.Sub(fs.touched) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	fs.touched = now
	return fs, nil
}

// Delete removes a session, reporting whether it existed
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Sweep drops expired sessions and returns how many were removed
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, fs := range s.sessions {
		if now.Sub(fs.touched) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
