package connectivity

import (
	"sync"

	"github.com/salesapp/client/internal/domain/offline"
)

// ManualMonitor is a connectivity monitor whose state is set directly.
// It backs tests and the airplane-mode override where the probe result
// must be ignored.
type ManualMonitor struct {
	mu          sync.Mutex
	online      bool
	subscribers map[int]func(online bool)
	nextID      int
}

var _ offline.Monitor = (*ManualMonitor)(nil)

// NewManualMonitor creates a manual monitor with the given initial state
func NewManualMonitor(online bool) *ManualMonitor {
	return &ManualMonitor{
		online:      online,
		subscribers: make(map[int]func(online bool)),
	}
}

// IsOnline returns the current state
func (m *ManualMonitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline sets the state and notifies subscribers on a transition
func (m *ManualMonitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	callbacks := make([]func(online bool), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		callbacks = append(callbacks, fn)
	}
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(online)
	}
}

// Subscribe registers a callback for state transitions
func (m *ManualMonitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}
