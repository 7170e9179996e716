package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdembench/poker"
)

// scriptAgent replays a fixed response sequence and records every request
// it saw. When the script runs dry it checks if possible, otherwise folds.
type scriptAgent struct {
	name      string
	responses []ActionResponse
	requests  []*ActionRequest
	onAct     func(req *ActionRequest)
}

func (a *scriptAgent) Name() string { return a.name }

func (a *scriptAgent) Reset(seatID int, table TableContext) {}

func (a *scriptAgent) Act(req *ActionRequest) ActionResponse {
	a.requests = append(a.requests, req)
	if a.onAct != nil {
		a.onAct(req)
	}
	if len(a.responses) == 0 {
		if req.Legal(Check) {
			return ActionResponse{Kind: Check}
		}
		return ActionResponse{Kind: Fold}
	}
	resp := a.responses[0]
	a.responses = a.responses[1:]
	return resp
}

func TestComputeOrder(t *testing.T) {
	t.Parallel()

	// Heads-up preflop the button acts first; postflop the other seat does.
	assert.Equal(t, []int{0, 1}, computeOrder(Preflop, 2, 0))
	assert.Equal(t, []int{1, 0}, computeOrder(Flop, 2, 0))

	// Six-handed preflop opens left of the big blind.
	assert.Equal(t, []int{3, 4, 5, 0, 1, 2}, computeOrder(Preflop, 6, 0))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 0}, computeOrder(Flop, 6, 0))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, computeOrder(Preflop, 6, 3))
}

func TestRotationAfter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{4, 0, 1}, rotationAfter([]int{0, 1, 2, 4}, 2))
	assert.Equal(t, []int{1, 2, 4}, rotationAfter([]int{0, 1, 2, 4}, 0))
	assert.Equal(t, []int{0, 1, 2, 4}, rotationAfter([]int{0, 1, 2, 4}, 9))
}

func TestApplyRaiseToFullRaiseDetection(t *testing.T) {
	t.Parallel()

	h := &handRun{cfg: TableConfig{SeatCount: 2, SmallBlind: 5, BigBlind: 10}.withDefaults()}

	tests := []struct {
		name          string
		stack, bet    int
		desired       int
		currentBet    int
		lastFullRaise int
		wantBet       int
		wantLFR       int
		wantFull      bool
	}{
		{"opening bet at bb", 1000, 0, 10, 0, 0, 10, 10, true},
		{"opening bet below bb", 8, 0, 8, 0, 0, 8, 0, false},
		{"min raise", 1000, 0, 20, 10, 10, 20, 10, true},
		{"full reraise", 1000, 0, 60, 20, 10, 60, 40, true},
		{"short all-in raise", 25, 0, 25, 20, 10, 25, 10, false},
		{"all-in reaching threshold", 30, 0, 30, 20, 10, 30, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SeatState{SeatID: 0, Stack: tt.stack, Bet: tt.bet}
			added, newBet, newLFR, full := h.applyRaiseTo(s, tt.desired, tt.currentBet, tt.lastFullRaise)
			assert.Equal(t, tt.desired-tt.bet, added)
			assert.Equal(t, tt.wantBet, newBet)
			assert.Equal(t, tt.wantLFR, newLFR)
			assert.Equal(t, tt.wantFull, full)
		})
	}
}

func TestMinRaiseTarget(t *testing.T) {
	t.Parallel()

	h := &handRun{cfg: TableConfig{SeatCount: 2, SmallBlind: 5, BigBlind: 10}.withDefaults()}
	assert.Equal(t, 10, h.minRaiseTarget(0, 0))
	assert.Equal(t, 20, h.minRaiseTarget(10, 10))
	// The increment never drops below the big blind.
	assert.Equal(t, 25, h.minRaiseTarget(15, 5))
	assert.Equal(t, 100, h.minRaiseTarget(60, 40))
}

func TestFallbackAction(t *testing.T) {
	t.Parallel()

	free := []ActionKind{Fold, Check, RaiseTo}
	facing := []ActionKind{Fold, Call, RaiseTo}

	assert.Equal(t, Check, fallbackAction(FallbackCheckFold, 0, free).Kind)
	assert.Equal(t, Fold, fallbackAction(FallbackCheckFold, 40, facing).Kind)
	assert.Equal(t, Fold, fallbackAction(FallbackFold, 0, free).Kind)
	assert.Equal(t, Fold, fallbackAction(FallbackFold, 40, facing).Kind)
}

// threeSeatFixture seats three stacks at a six-handed table with the button
// on seat 0, so blinds land on seats 1 and 2.
func threeSeatFixture(t *testing.T, stacks [3]int, a0, a1, a2 *scriptAgent) (*Engine, HandParams) {
	t.Helper()
	eng, err := New(TableConfig{
		SeatCount:       6,
		SmallBlind:      50,
		BigBlind:        100,
		StartingStack:   1000,
		RunOutWhenAllIn: true,
	})
	require.NoError(t, err)

	seats := map[int]*SeatState{
		0: NewSeatState(0, "a", stacks[0]),
		1: NewSeatState(1, "b", stacks[1]),
		2: NewSeatState(2, "c", stacks[2]),
	}
	agents := map[int]Agent{0: a0, 1: a1, 2: a2}
	return eng, HandParams{
		Seed:       11,
		ButtonSeat: 0,
		Seats:      seats,
		Agents:     agents,
		Deck:       poker.ShuffledDeck(11, 0, 0),
	}
}

// A short all-in raise must not let the earlier full raiser act again with a
// raise: facing only the short extra amount the legal set is fold/call.
func TestShortAllInDoesNotReopen(t *testing.T) {
	t.Parallel()

	a := &scriptAgent{name: "a", responses: []ActionResponse{
		{Kind: RaiseTo, Amount: 300},
		{Kind: Call},
	}}
	b := &scriptAgent{name: "b", responses: []ActionResponse{
		{Kind: Call},
		{Kind: Call},
	}}
	c := &scriptAgent{name: "c", responses: []ActionResponse{
		{Kind: RaiseTo, Amount: 350},
	}}

	eng, params := threeSeatFixture(t, [3]int{1000, 1000, 350}, a, b, c)
	_, err := eng.PlayHand(params)
	require.NoError(t, err)

	// Seat 0 opened for 300 (a full raise over the 100 blind), seat 2 pushed
	// to 350. That 50 extra is short of the 500 threshold.
	require.GreaterOrEqual(t, len(a.requests), 2)
	second := a.requests[1]
	assert.Equal(t, 50, second.ToCall)
	assert.ElementsMatch(t, []ActionKind{Fold, Call}, second.LegalActions)

	require.GreaterOrEqual(t, len(b.requests), 2)
	assert.ElementsMatch(t, []ActionKind{Fold, Call}, b.requests[1].LegalActions)
}

// A raise that reaches the full-raise threshold reopens the action even
// when it puts the raiser all-in.
func TestFullAllInRaiseReopens(t *testing.T) {
	t.Parallel()

	a := &scriptAgent{name: "a", responses: []ActionResponse{
		{Kind: RaiseTo, Amount: 300},
		{Kind: Fold},
	}}
	b := &scriptAgent{name: "b", responses: []ActionResponse{
		{Kind: Fold},
	}}
	c := &scriptAgent{name: "c", responses: []ActionResponse{
		{Kind: RaiseTo, Amount: 500},
	}}

	eng, params := threeSeatFixture(t, [3]int{1000, 1000, 500}, a, b, c)
	_, err := eng.PlayHand(params)
	require.NoError(t, err)

	require.Len(t, a.requests, 2)
	second := a.requests[1]
	assert.Equal(t, 200, second.ToCall)
	assert.Contains(t, second.LegalActions, RaiseTo)
	assert.Equal(t, 700, second.MinRaiseTo)
}

// Every request must advertise exactly the closed legal set: fold always,
// check only when nothing is owed, call only when something is.
func TestLegalActionClosure(t *testing.T) {
	t.Parallel()

	a := &scriptAgent{name: "a", responses: []ActionResponse{
		{Kind: RaiseTo, Amount: 300},
		{Kind: Call},
	}}
	b := &scriptAgent{name: "b"}
	c := &scriptAgent{name: "c", responses: []ActionResponse{
		{Kind: RaiseTo, Amount: 600},
	}}

	eng, params := threeSeatFixture(t, [3]int{1000, 1000, 1000}, a, b, c)
	_, err := eng.PlayHand(params)
	require.NoError(t, err)

	for _, agent := range []*scriptAgent{a, b, c} {
		for _, req := range agent.requests {
			assert.Contains(t, req.LegalActions, Fold)
			if req.ToCall == 0 {
				assert.Contains(t, req.LegalActions, Check)
				assert.NotContains(t, req.LegalActions, Call)
			} else {
				assert.Contains(t, req.LegalActions, Call)
				assert.NotContains(t, req.LegalActions, Check)
			}
		}
	}
}
