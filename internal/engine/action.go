package engine

import (
	"time"

	"holdembench/poker"
)

// Street is one of the four betting phases.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river"}[s]
}

// ActionKind is the closed set of decisions a seat can make.
type ActionKind uint8

const (
	Fold ActionKind = iota
	Check
	Call
	RaiseTo
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case RaiseTo:
		return "raise_to"
	default:
		return "invalid"
	}
}

// valid reports whether k is a recognized action tag. Anything else from an
// agent is a boundary-contract violation, not a bad poker decision.
func (k ActionKind) valid() bool {
	return k <= RaiseTo
}

// HistoryEntry records one applied action for the benefit of later deciders.
type HistoryEntry struct {
	SeatID     int
	Kind       ActionKind
	Amount     int
	Street     Street
	ToCall     int
	MinRaiseTo int
}

// ActionRequest is the read-only snapshot handed to an agent for one
// decision.
type ActionRequest struct {
	TableID    string
	HandID     string
	SeatCount  int
	SeatID     int
	ButtonSeat int
	SmallBlind int
	BigBlind   int

	Stacks     map[int]int
	Pot        int
	ToCall     int
	MinRaiseTo int

	HoleCards []poker.Card
	Board     []poker.Card
	History   []HistoryEntry

	LegalActions []ActionKind
	Timebank     time.Duration
	RNGTag       string
}

// Legal reports whether k is in the request's legal action set.
func (r *ActionRequest) Legal(k ActionKind) bool {
	for _, l := range r.LegalActions {
		if l == k {
			return true
		}
	}
	return false
}

// ActionResponse is an agent's decision. Amount is the target total street
// bet for RaiseTo and ignored otherwise. ExternalWait is time the agent
// attributes to provider-side throttling; it is excluded from timebank
// accounting.
type ActionResponse struct {
	Kind         ActionKind
	Amount       int
	Metadata     map[string]string
	ExternalWait time.Duration
}
