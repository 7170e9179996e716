package engine

import (
	"fmt"
	"time"
)

// FallbackPolicy selects the action substituted when a seat times out or
// submits an illegal action.
type FallbackPolicy string

const (
	// FallbackCheckFold checks when facing no bet and folds otherwise.
	FallbackCheckFold FallbackPolicy = "check_or_fold"
	// FallbackFold always folds when folding is legal.
	FallbackFold FallbackPolicy = "fold"
)

// OddChipRule selects how an indivisible remainder chip is assigned among
// tied winners.
type OddChipRule string

// OddChipButtonLeft hands remainder chips out one at a time in seating
// order starting immediately left of the button.
const OddChipButtonLeft OddChipRule = "button_left"

// TableConfig holds the immutable per-table parameters. It is created once
// per table session and never mutated mid-hand.
type TableConfig struct {
	TableID       string
	SeatCount     int
	SmallBlind    int
	BigBlind      int
	Ante          int
	StartingStack int

	// Timebank is the per-decision budget. Enforcement is retrospective:
	// the engine measures around the blocking agent call and classifies a
	// timeout only after the call returns.
	Timebank time.Duration

	// AutoTopUp restores every stack to StartingStack before each hand.
	AutoTopUp bool

	// RunOutWhenAllIn deals the remaining board without further betting
	// rounds once every non-folded seat is all-in.
	RunOutWhenAllIn bool

	// Straddle is accepted in configuration but not implemented; PlayHand
	// rejects it with an IntegrationError.
	Straddle bool

	OddChips        OddChipRule
	TimeoutFallback FallbackPolicy
	IllegalFallback FallbackPolicy
}

// withDefaults fills zero-valued optional fields.
func (c TableConfig) withDefaults() TableConfig {
	if c.TableID == "" {
		c.TableID = "table"
	}
	if c.Timebank == 0 {
		c.Timebank = 60 * time.Second
	}
	if c.OddChips == "" {
		c.OddChips = OddChipButtonLeft
	}
	if c.TimeoutFallback == "" {
		c.TimeoutFallback = FallbackCheckFold
	}
	if c.IllegalFallback == "" {
		c.IllegalFallback = FallbackCheckFold
	}
	return c
}

// Validate checks the configuration preconditions the engine relies on.
func (c TableConfig) Validate() error {
	if c.SeatCount != 2 && c.SeatCount != 6 {
		return fmt.Errorf("seat count must be 2 or 6, got %d", c.SeatCount)
	}
	if c.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	}
	if c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("big blind %d must exceed small blind %d", c.BigBlind, c.SmallBlind)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("starting stack must be positive, got %d", c.StartingStack)
	}
	if c.Ante < 0 {
		return fmt.Errorf("ante must not be negative, got %d", c.Ante)
	}
	if c.OddChips != OddChipButtonLeft {
		return fmt.Errorf("unsupported odd chip rule %q", c.OddChips)
	}
	switch c.TimeoutFallback {
	case FallbackCheckFold, FallbackFold:
	default:
		return fmt.Errorf("unsupported timeout fallback policy %q", c.TimeoutFallback)
	}
	switch c.IllegalFallback {
	case FallbackCheckFold, FallbackFold:
	default:
		return fmt.Errorf("unsupported illegal-action fallback policy %q", c.IllegalFallback)
	}
	return nil
}
