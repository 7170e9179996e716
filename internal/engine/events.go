package engine

// Sink receives the event stream a hand produces. Implementations must not
// assume ordering across hands, only within one.
type Sink interface {
	Log(eventType string, payload map[string]any)
}

// Event types emitted during a hand, in roughly the order they appear.
const (
	EventHandStart        = "hand_start"
	EventDealHole         = "deal_hole"
	EventAnte             = "ante"
	EventBlind            = "blind"
	EventStreetTransition = "street_transition"
	EventAction           = "action"
	EventPenalty          = "penalty"
	EventShowdown         = "showdown"
	EventHandEnd          = "hand_end"
)

// emit forwards an event to the sink. A panicking sink is contained here;
// observability failures must never change hand outcomes.
func (e *Engine) emit(eventType string, payload map[string]any) {
	if e.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("event sink panicked", "event", eventType, "panic", r)
		}
	}()
	e.sink.Log(eventType, payload)
}
