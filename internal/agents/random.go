package agents

import (
	"math/rand"

	"holdembench/internal/engine"
)

// Random picks uniformly among the legal actions, sizing raises to the
// minimum. Its own rng keeps it reproducible independently of the deck
// stream.
type Random struct {
	name string
	rng  *rand.Rand
}

// NewRandom builds a seeded random agent.
func NewRandom(seed int64) *Random {
	return &Random{name: "Random", rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) Name() string { return a.name }

func (a *Random) Reset(seatID int, table engine.TableContext) {}

func (a *Random) Act(req *engine.ActionRequest) engine.ActionResponse {
	kind := req.LegalActions[a.rng.Intn(len(req.LegalActions))]
	if kind == engine.RaiseTo {
		return engine.ActionResponse{Kind: engine.RaiseTo, Amount: req.MinRaiseTo}
	}
	return engine.ActionResponse{Kind: kind}
}
