package chatbot

import "sync"

// Store keys session state by a client-supplied session id so concurrent
// conversations cannot corrupt each other's flows. Each session carries
// its own mutex, held for a full turn: a turn's read-decide-write is
// atomic with respect to other requests on the same session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*sessionEntry),
	}
}

// Acquire locks the session for the given id, creating it empty on first
// use, and returns it together with its release function. The caller
// must call release when the turn is finished.
func (st *Store) Acquire(id string) (*Session, func()) {
	st.mu.Lock()
	entry, ok := st.sessions[id]
	if !ok {
		entry = &sessionEntry{session: Session{ID: id, Task: TaskNone}}
		st.sessions[id] = entry
	}
	st.mu.Unlock()

	entry.mu.Lock()
	return &entry.session, entry.mu.Unlock
}

// Reset clears the session for the given id, identity included. Unknown
// ids are a no-op.
func (st *Store) Reset(id string) {
	st.mu.Lock()
	entry, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.session.Clear()
	entry.mu.Unlock()
}
