package composer

import (
	"fmt"
	"sync"

	"github.com/maestoso/scorekit/pkg/notegen"
)

// Manager is the process-wide session registry. It only guards the map;
// each session remains single-writer and is never driven concurrently.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	gen      notegen.Generator
}

// NewManager creates a registry whose sessions share gen.
func NewManager(gen notegen.Generator) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		gen:      gen,
	}
}

// Open creates and registers a new session.
func (m *Manager) Open() *Session {
	s := NewSession(m.gen)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("composer: no such session %q", id)
	}
	return s, nil
}

// Close removes a session from the registry.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
