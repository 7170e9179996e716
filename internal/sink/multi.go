package sink

// Sink mirrors the engine's sink contract so fan-out stays decoupled from
// the engine package.
type Sink interface {
	Log(eventType string, payload map[string]any)
}

// Multi fans every event out to all children in order.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi { return &Multi{sinks: sinks} }

func (m *Multi) Log(eventType string, payload map[string]any) {
	for _, s := range m.sinks {
		s.Log(eventType, payload)
	}
}
