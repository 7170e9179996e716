package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(player string, seed int64, delta int) HandRecord {
	return HandRecord{Player: player, Seed: seed, Delta: delta, Mode: "hu"}
}

func TestAggregateRates(t *testing.T) {
	t.Parallel()

	records := []HandRecord{
		record("hero", 1, 100),
		record("hero", 1, -40),
		record("hero", 2, 60),
		record("hero", 2, 80),
		{Player: "hero", Seed: 3, Delta: 0, Timeouts: 1, IllegalActions: 2},
	}

	out := Aggregate(records, nil, 100)
	m, ok := out["hero"]
	require.True(t, ok)

	assert.Equal(t, 5, m.Hands)
	assert.Equal(t, 200, m.TotalDeltaChips)
	// 200 chips / 100bb over 5 hands = 0.4bb/hand = 40bb/100.
	assert.InDelta(t, 40.0, m.BBPer100, 1e-9)
	assert.Equal(t, 1, m.Timeouts.Count)
	assert.InDelta(t, 0.2, m.Timeouts.PerHand, 1e-9)
	assert.Equal(t, 2, m.IllegalActions.Count)

	assert.Less(t, m.BBPer100CI[0], m.BBPer100)
	assert.Greater(t, m.BBPer100CI[1], m.BBPer100)
}

func TestAggregateSingleSeedCollapsesCI(t *testing.T) {
	t.Parallel()

	out := Aggregate([]HandRecord{record("hero", 1, 300), record("hero", 1, -100)}, nil, 100)
	m := out["hero"]
	assert.Equal(t, m.BBPer100, m.BBPer100CI[0])
	assert.Equal(t, m.BBPer100, m.BBPer100CI[1])
	assert.Equal(t, 1, m.MatchPoints, "positive point estimate with collapsed CI scores a win")
}

func TestMatchPointsSign(t *testing.T) {
	t.Parallel()

	losing := Aggregate([]HandRecord{record("hero", 1, -500)}, nil, 100)["hero"]
	assert.Equal(t, -1, losing.MatchPoints)

	flat := Aggregate([]HandRecord{record("hero", 1, 0)}, nil, 100)["hero"]
	assert.Equal(t, 0, flat.MatchPoints)
}

// feedHand pushes a minimal hand's event stream through the tracker.
func feedHand(tr *Tracker, handID string, actions []map[string]any, sawFlop, showdown bool) {
	tr.Log("hand_start", map[string]any{
		"hand_id": handID,
		"seats": map[int]map[string]any{
			0: {"name": "hero", "stack": 1000},
			1: {"name": "villain", "stack": 1000},
		},
	})
	for _, a := range actions {
		a["hand_id"] = handID
		tr.Log("action", a)
	}
	if sawFlop {
		tr.Log("street_transition", map[string]any{"hand_id": handID, "street": "flop"})
	}
	if showdown {
		tr.Log("showdown", map[string]any{"hand_id": handID})
	}
	tr.Log("hand_end", map[string]any{"hand_id": handID})
}

func TestTrackerBehavior(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	// Hand 1: hero raises preflop, villain folds.
	feedHand(tr, "1-0-0", []map[string]any{
		{"seat": 0, "action": "raise_to", "street": "preflop", "to_call": 5, "elapsed_ms": int64(10)},
		{"seat": 1, "action": "fold", "street": "preflop", "to_call": 20, "elapsed_ms": int64(30)},
	}, false, false)

	// Hand 2: hero calls preflop, calls a flop bet, reaches showdown.
	feedHand(tr, "1-1-0", []map[string]any{
		{"seat": 0, "action": "call", "street": "preflop", "to_call": 5, "elapsed_ms": int64(20)},
		{"seat": 1, "action": "check", "street": "preflop", "to_call": 0, "elapsed_ms": int64(5)},
		{"seat": 1, "action": "raise_to", "street": "flop", "to_call": 0, "elapsed_ms": int64(5)},
		{"seat": 0, "action": "call", "street": "flop", "to_call": 30, "elapsed_ms": int64(40)},
	}, true, true)

	snap := tr.Snapshot()
	hero := snap["hero"]
	require.NotNil(t, hero)

	assert.Equal(t, 2, hero.Hands)
	assert.Equal(t, 2, hero.VPIP, "raise and voluntary call both count")
	assert.Equal(t, 1, hero.PFR)
	assert.Equal(t, 1, hero.PostflopCalls)
	assert.Equal(t, 0, hero.PostflopRaises)
	assert.Equal(t, 1, hero.WentShowdown)
	assert.Len(t, hero.DecisionTimes, 3)

	villain := snap["villain"]
	require.NotNil(t, villain)
	assert.Equal(t, 0, villain.VPIP, "folding and checking are not voluntary investments")
	assert.Equal(t, 1, villain.PostflopRaises)
	assert.Equal(t, 1, villain.WentShowdown)
}

func TestTrackerFeedsAggregate(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	feedHand(tr, "2-0-0", []map[string]any{
		{"seat": 0, "action": "raise_to", "street": "preflop", "to_call": 5, "elapsed_ms": int64(12)},
		{"seat": 1, "action": "fold", "street": "preflop", "to_call": 20, "elapsed_ms": int64(8)},
	}, false, false)

	out := Aggregate([]HandRecord{record("hero", 2, 10), record("villain", 2, -10)}, tr.Snapshot(), 100)

	hero := out["hero"]
	assert.InDelta(t, 1.0, hero.Behavior.VPIP.Rate, 1e-9)
	assert.InDelta(t, 1.0, hero.Behavior.PFR.Rate, 1e-9)
	assert.InDelta(t, 12.0, hero.Behavior.DecisionMeanMS, 1e-9)
	assert.Zero(t, out["villain"].Behavior.VPIP.Count)
}
