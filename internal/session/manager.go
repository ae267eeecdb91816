package session

import (
	"log"
	"sync"
)

// Manager keeps the dashboard controls between visits. An empty file path
// keeps the state in memory only.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading state from disk when a path is given.
func NewManager(filePath string) (*Manager, error) {
	state := &State{}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, err
		}
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// Get returns a copy of the current state.
func (m *Manager) Get() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.state
	s.Series = append([]string(nil), m.state.Series...)
	return s
}

// Update replaces the stored controls and persists them.
func (m *Manager) Update(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Series = append([]string(nil), s.Series...)
	m.state = &s
	if m.filePath == "" {
		return
	}
	if err := SaveState(m.filePath, m.state); err != nil {
		log.Printf("[ERROR] failed to save session state: %v", err)
	}
}
