package engine

import (
	"holdembench/poker"
)

// SeatState is the mutable per-seat record for the current hand. Timeouts
// and IllegalActions are session-scoped: they persist across hands (they
// feed behavioral metrics) and reset only when a session starts.
type SeatState struct {
	SeatID     int
	Name       string
	Stack      int
	HoleCards  []poker.Card
	Bet        int // chips committed on the current street
	Folded     bool
	AllIn      bool
	SittingOut bool

	Timeouts       int
	IllegalActions int
}

// NewSeatState creates a seat with the given stack.
func NewSeatState(seatID int, name string, stack int) *SeatState {
	return &SeatState{SeatID: seatID, Name: name, Stack: stack}
}

// ResetForHand clears the per-hand state. The session penalty counters are
// deliberately left alone.
func (s *SeatState) ResetForHand(stack int) {
	s.Stack = stack
	s.Bet = 0
	s.Folded = false
	s.AllIn = false
	s.HoleCards = nil
	s.SittingOut = false
}

// maxTotal is the largest total street bet the seat can reach.
func (s *SeatState) maxTotal() int {
	return s.Bet + s.Stack
}

// commit moves up to amount chips from the stack into the seat's street bet,
// returning how many actually moved. A stack reaching zero marks the seat
// all-in.
func (s *SeatState) commit(amount int) int {
	if amount > s.Stack {
		amount = s.Stack
	}
	s.Stack -= amount
	s.Bet += amount
	if s.Stack == 0 {
		s.AllIn = true
	}
	return amount
}
