package metrics

import (
	"sync"
)

// Behavior accumulates the frequency stats for one player across hands.
type Behavior struct {
	Hands          int
	VPIP           int
	PFR            int
	SawFlop        int
	WentShowdown   int
	PostflopRaises int
	PostflopCalls  int
	DecisionTimes  []float64 // milliseconds
}

// handSeat tracks one seat's behavior within a single hand in flight.
type handSeat struct {
	player  string
	vpip    bool
	pfr     bool
	folded  bool
	sawFlop bool
	wentSD  bool
	raises  int
	calls   int
	times   []float64
}

// Tracker is an event sink that derives behavioral statistics (VPIP, PFR,
// aggression factor inputs, showdown rates, decision times) directly from
// the in-process event stream. Attach it alongside the transcript sink with
// a fan-out.
type Tracker struct {
	mu      sync.Mutex
	open    map[string]map[int]*handSeat
	players map[string]*Behavior
}

func NewTracker() *Tracker {
	return &Tracker{
		open:    make(map[string]map[int]*handSeat),
		players: make(map[string]*Behavior),
	}
}

func (t *Tracker) behavior(player string) *Behavior {
	b, ok := t.players[player]
	if !ok {
		b = &Behavior{}
		t.players[player] = b
	}
	return b
}

// Log consumes one engine event. Unknown event types are ignored.
func (t *Tracker) Log(eventType string, payload map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	handID, _ := payload["hand_id"].(string)

	switch eventType {
	case "hand_start":
		seats, ok := payload["seats"].(map[int]map[string]any)
		if !ok {
			return
		}
		states := make(map[int]*handSeat, len(seats))
		for seat, info := range seats {
			name, _ := info["name"].(string)
			states[seat] = &handSeat{player: name}
			t.behavior(name).Hands++
		}
		t.open[handID] = states

	case "street_transition":
		states := t.open[handID]
		if street, _ := payload["street"].(string); street == "flop" {
			for _, st := range states {
				if !st.folded {
					st.sawFlop = true
				}
			}
		}

	case "action":
		states := t.open[handID]
		seat, ok := asInt(payload["seat"])
		if !ok {
			return
		}
		st, ok := states[seat]
		if !ok {
			return
		}
		action, _ := payload["action"].(string)
		street, _ := payload["street"].(string)
		toCall, _ := asInt(payload["to_call"])
		if elapsed, ok := asFloat(payload["elapsed_ms"]); ok {
			st.times = append(st.times, elapsed)
		}
		if street == "preflop" {
			if action == "raise_to" || (action == "call" && toCall > 0) {
				st.vpip = true
			}
			if action == "raise_to" {
				st.pfr = true
			}
		} else {
			switch action {
			case "raise_to":
				st.raises++
			case "call":
				st.calls++
			}
		}
		if action == "fold" {
			st.folded = true
		}

	case "showdown":
		for _, st := range t.open[handID] {
			if !st.folded {
				st.wentSD = true
			}
		}

	case "hand_end":
		states := t.open[handID]
		delete(t.open, handID)
		for _, st := range states {
			b := t.behavior(st.player)
			if st.vpip {
				b.VPIP++
			}
			if st.pfr {
				b.PFR++
			}
			if st.sawFlop {
				b.SawFlop++
			}
			if st.wentSD {
				b.WentShowdown++
			}
			b.PostflopRaises += st.raises
			b.PostflopCalls += st.calls
			b.DecisionTimes = append(b.DecisionTimes, st.times...)
		}
	}
}

// Snapshot returns the per-player behavior accumulated so far.
func (t *Tracker) Snapshot() map[string]*Behavior {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]*Behavior, len(t.players))
	for name, b := range t.players {
		clone := *b
		clone.DecisionTimes = append([]float64(nil), b.DecisionTimes...)
		out[name] = &clone
	}
	return out
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
