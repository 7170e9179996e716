package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdembench/internal/engine"
	"holdembench/poker"
)

func request(holeCards string, toCall, minRaiseTo, pot, bigBlind, seatCount int) *engine.ActionRequest {
	legal := []engine.ActionKind{engine.Fold}
	if toCall == 0 {
		legal = append(legal, engine.Check)
	} else {
		legal = append(legal, engine.Call)
	}
	legal = append(legal, engine.RaiseTo)
	return &engine.ActionRequest{
		SeatCount:    seatCount,
		SeatID:       0,
		SmallBlind:   bigBlind / 2,
		BigBlind:     bigBlind,
		Stacks:       map[int]int{0: 10000, 1: 10000},
		Pot:          pot,
		ToCall:       toCall,
		MinRaiseTo:   minRaiseTo,
		HoleCards:    poker.MustParseCards(holeCards),
		LegalActions: legal,
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		a, err := New(name, 1)
		require.NoError(t, err)
		require.NotNil(t, a)
	}

	_, err := New("gto-solver", 1)
	assert.Error(t, err)
}

func TestRandomIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	req := request("As Kd", 100, 300, 450, 100, 2)

	a := NewRandom(9)
	b := NewRandom(9)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Act(req), b.Act(req))
	}
}

func TestRandomOnlyPicksLegalActions(t *testing.T) {
	t.Parallel()

	a := NewRandom(3)
	req := request("As Kd", 100, 300, 450, 100, 2)
	for i := 0; i < 200; i++ {
		resp := a.Act(req)
		assert.True(t, req.Legal(resp.Kind), "picked %v outside legal set", resp.Kind)
		if resp.Kind == engine.RaiseTo {
			assert.Equal(t, req.MinRaiseTo, resp.Amount)
		}
	}
}

func TestStationNeverFoldsWhileCallable(t *testing.T) {
	t.Parallel()

	a := NewStation()
	assert.Equal(t, engine.Check, a.Act(request("2c 7d", 0, 200, 150, 100, 2)).Kind)
	assert.Equal(t, engine.Call, a.Act(request("2c 7d", 500, 900, 1200, 100, 2)).Kind)
}

func TestTAGHeadsUpPolicy(t *testing.T) {
	t.Parallel()

	a := NewTAG()

	tests := []struct {
		name   string
		hole   string
		toCall int
		want   engine.ActionKind
	}{
		{"premium pocket raises", "Qs Qd", 0, engine.RaiseTo},
		{"premium pocket reraises", "As Ah", 300, engine.RaiseTo},
		{"suited broadway raises", "Ks Ts", 0, engine.RaiseTo},
		{"ace jack offsuit raises", "Ah Jc", 0, engine.RaiseTo},
		{"junk checks when free", "7c 2d", 0, engine.Check},
		{"junk calls a single blind", "7c 2d", 100, engine.Call},
		{"junk folds to pressure", "7c 2d", 400, engine.Fold},
		{"small pocket stays passive", "5s 5d", 400, engine.Fold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.Act(request(tt.hole, tt.toCall, 600, 300, 100, 2))
			assert.Equal(t, tt.want, resp.Kind)
		})
	}
}

func TestTAGRingPolicy(t *testing.T) {
	t.Parallel()

	a := NewTAG()

	resp := a.Act(request("Js Jd", 0, 300, 150, 100, 6))
	require.Equal(t, engine.RaiseTo, resp.Kind)
	assert.GreaterOrEqual(t, resp.Amount, 300)

	assert.Equal(t, engine.Call, a.Act(request("Ks Qd", 300, 600, 450, 100, 6)).Kind)
	assert.Equal(t, engine.Fold, a.Act(request("9c 4d", 300, 600, 450, 100, 6)).Kind)
}

func TestTAGRaiseMeetsMinimum(t *testing.T) {
	t.Parallel()

	a := NewTAG()
	// Tiny pot: the pot-growth target is below the min raise and must be
	// floored up to it.
	resp := a.Act(request("As Ad", 100, 400, 30, 100, 2))
	require.Equal(t, engine.RaiseTo, resp.Kind)
	assert.GreaterOrEqual(t, resp.Amount, 400)
}
