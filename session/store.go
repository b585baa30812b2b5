package session

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shiwano/errdef"

	"github.com/chazu/unwind/trace"
)

// ErrSessionNotFound is returned when no session has the requested id.
var ErrSessionNotFound = errdef.Define("session_not_found")

// SessionID attaches the requested id to a session_not_found error.
var SessionID, SessionIDFrom = errdef.DefineField[string]("session_id")

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store manages inspection sessions. It is safe for concurrent use;
// the sessions it hands out are not, matching one client per session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextID   atomic.Uint64
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create opens a session over a snapshot with an optional name.
func (s *Store) Create(name string, snap *trace.Snapshot) (*Session, error) {
	id := fmt.Sprintf("s-%d", s.nextID.Add(1))

	session, err := newSession(id, name, snap)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound.WithOptions(SessionID(id)).
			Errorf("no session %s", id)
	}
	return session, nil
}

// Destroy removes a session. Destroying an unknown id is a no-op.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// List returns the ids of all open sessions.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
