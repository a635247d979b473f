package wizard

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("wizard session not found")

// Store holds live wizard sessions in memory. All session mutation goes
// through With, which serializes access so a session only ever has one
// writer — the single-instantiation guarantee the flow depends on.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a Store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put registers a new session.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// With runs fn against the session while holding the store lock. Finished
// sessions (Done or Cancelled) are removed after fn returns.
func (st *Store) With(id string, fn func(*Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	err := fn(s)
	if s.State == StateDone || s.State == StateCancelled {
		delete(st.sessions, id)
	}
	return err
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// ReapExpired drops sessions idle past the TTL and returns how many.
func (st *Store) ReapExpired() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := time.Now().Add(-st.ttl)
	reaped := 0
	for id, s := range st.sessions {
		if s.TouchedAt.Before(cutoff) {
			delete(st.sessions, id)
			reaped++
		}
	}
	return reaped
}
