package sink

import "sync"

// Event is one captured sink entry.
type Event struct {
	Type    string
	Payload map[string]any
}

// Memory buffers events in order. Used by tests and by in-process metric
// tracking.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Log(eventType string, payload map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Type: eventType, Payload: payload})
}

// Events returns a snapshot of everything logged so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// OfType filters the snapshot by event type.
func (m *Memory) OfType(eventType string) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
