package session

import "sync"

// Manager owns one [Context] per session ID. Concurrent conversations get
// independent contexts — there is no cross-session sharing. All methods
// are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Context
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Context)}
}

// Get returns the context for id, creating it on first use. The second
// return value reports whether the session already existed.
func (m *Manager) Get(id string) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[id]; ok {
		return c, true
	}
	c := NewContext()
	m.sessions[id] = c
	return c, false
}

// End removes the session, discarding its context. Returns true when a
// session with that ID existed.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
