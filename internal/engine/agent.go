package engine

import "fmt"

// TableContext is the static table information an agent receives once per
// hand before any decision is requested.
type TableContext struct {
	SeatCount     int
	SmallBlind    int
	BigBlind      int
	StartingStack int
	SeatID        int
	SeatNames     map[int]string
}

// Agent is a decision-maker seated at the table. Act blocks until the agent
// has a decision; the engine measures the call and applies the timebank
// retrospectively, so a slow agent keeps the table consistent but collects a
// penalty.
type Agent interface {
	Name() string
	Reset(seatID int, table TableContext)
	Act(req *ActionRequest) ActionResponse
}

// IntegrationError marks a broken harness contract rather than a bad poker
// decision: unknown action kinds, unsupported configuration, corrupt decks,
// chip-conservation violations. Decision-quality faults never produce one.
type IntegrationError struct {
	msg string
}

func (e *IntegrationError) Error() string {
	return e.msg
}

func integrationErrorf(format string, args ...any) *IntegrationError {
	return &IntegrationError{msg: fmt.Sprintf(format, args...)}
}
