// Package connectivity models the host's online/offline signal as an explicit
// subscribe/unsubscribe monitor, so transitions can be driven by a prober in
// production and by hand in tests.
package connectivity

import (
	gosync "sync"
)

// Monitor holds the current connectivity flag and fans out transitions to
// subscribers. Handlers run synchronously on the goroutine that flips the
// flag and only on actual transitions, not on repeated Set calls with the
// same value.
type Monitor struct {
	mu     gosync.RWMutex
	online bool
	subs   map[int]func(online bool)
	nextID int
}

func NewMonitor(online bool) *Monitor {
	return &Monitor{
		online: online,
		subs:   make(map[int]func(bool)),
	}
}

// Online reports the current flag.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline updates the flag and notifies subscribers on a transition.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	handlers := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		handlers = append(handlers, fn)
	}
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(online)
	}
}

// Subscribe registers fn for transition notifications and returns a token for
// Unsubscribe.
func (m *Monitor) Subscribe(fn func(online bool)) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.subs[m.nextID] = fn
	return m.nextID
}

// Unsubscribe removes the handler. Unknown tokens are ignored.
func (m *Monitor) Unsubscribe(token int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, token)
}
