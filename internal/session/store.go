package session

import "sync"

// Store is an in-memory session store keyed by user id. It is safe for
// concurrent access and logically partitioned per user: no operation ever
// touches another user's state.
type Store struct {
	mu     sync.RWMutex
	states map[int64]State
	locks  map[int64]*sync.Mutex
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{
		states: make(map[int64]State),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Get returns the user's current state, defaulting to Idle when absent.
func (s *Store) Get(userID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[userID]; ok {
		return state
	}
	return Idle{}
}

// Set replaces the user's state.
func (s *Store) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// Clear resets the user to Idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// UserLock returns the mutex serializing units of work for one user. Two
// concurrent events from the same user must not both read the same prior
// state and advance independently; the dispatcher holds this lock across
// its read-dispatch-write cycle.
func (s *Store) UserLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mu, ok := s.locks[userID]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	s.locks[userID] = mu
	return mu
}
