package session

import (
	"sync"
)

type entry struct {
	mu    sync.Mutex // serializes operations of one session
	state AppState
}

// Store keeps one AppState per session id in memory. Food log, activity and
// transcript are not persisted across restarts.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

func (s *Store) get(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{state: Initial()}
		s.sessions[id] = e
	}
	return e
}

// Snapshot returns the current state of session id.
func (s *Store) Snapshot(id string) AppState {
	e := s.get(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Dispatch reduces action into session id and returns the new state.
func (s *Store) Dispatch(id string, action Action) AppState {
	e := s.get(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Reduce(e.state, action)
	return e.state
}

// Do runs fn while holding the session lock, so at most one request per
// session is in flight. fn receives the current state and returns the
// actions to apply; they are applied even when fn also returns an error.
func (s *Store) Do(id string, fn func(AppState) ([]Action, error)) (AppState, error) {
	e := s.get(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	actions, err := fn(e.state)
	for _, a := range actions {
		e.state = Reduce(e.state, a)
	}
	return e.state, err
}

// Forget drops session id.
func (s *Store) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
