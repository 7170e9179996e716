package agents

import (
	"holdembench/internal/engine"
	"holdembench/poker"
)

// TAG is a tight-aggressive heuristic: premium holdings raise, marginal ones
// call small bets, everything else folds. Not meant to be strong, just a
// stable and interpretable baseline with distinct heads-up and ring
// policies.
type TAG struct{}

func NewTAG() *TAG { return &TAG{} }

func (a *TAG) Name() string { return "TAG" }

func (a *TAG) Reset(seatID int, table engine.TableContext) {}

func (a *TAG) Act(req *engine.ActionRequest) engine.ActionResponse {
	if req.SeatCount == 2 {
		return a.headsUp(req)
	}
	return a.ring(req)
}

// holding summarizes the two hole cards with the higher rank first.
type holding struct {
	high   poker.Rank
	low    poker.Rank
	suited bool
	pocket bool
}

func describe(hole []poker.Card) holding {
	h := holding{high: hole[0].Rank, low: hole[1].Rank, suited: hole[0].Suit == hole[1].Suit}
	if h.low > h.high {
		h.high, h.low = h.low, h.high
	}
	h.pocket = h.high == h.low
	return h
}

func (a *TAG) headsUp(req *engine.ActionRequest) engine.ActionResponse {
	h := describe(req.HoleCards)

	aggressive := false
	switch {
	case h.pocket && h.high >= poker.Ten:
		aggressive = true
	case h.suited && h.high >= poker.King && h.low >= poker.Ten:
		aggressive = true
	case h.high == poker.Ace && h.low >= poker.Jack:
		aggressive = true
	}

	if req.ToCall == 0 {
		if aggressive {
			return a.raise(req, 2.5)
		}
		return engine.ActionResponse{Kind: engine.Check}
	}
	if aggressive {
		return a.raise(req, 2.0)
	}
	if req.ToCall <= req.BigBlind {
		return engine.ActionResponse{Kind: engine.Call}
	}
	return engine.ActionResponse{Kind: engine.Fold}
}

func (a *TAG) ring(req *engine.ActionRequest) engine.ActionResponse {
	h := describe(req.HoleCards)
	premium := h.pocket && h.high >= poker.Ten
	strong := (h.pocket && h.high >= poker.Seven) || (h.high >= poker.King && h.low >= poker.Queen)
	playable := h.suited && h.high >= poker.Jack && h.low >= poker.Nine

	if req.ToCall == 0 {
		if premium {
			return a.raise(req, 3.5)
		}
		if strong {
			return a.raise(req, 3.0)
		}
		return engine.ActionResponse{Kind: engine.Check}
	}
	if premium {
		return a.raise(req, 3.0)
	}
	if strong || (playable && req.ToCall <= 2*req.BigBlind) {
		return engine.ActionResponse{Kind: engine.Call}
	}
	if req.ToCall <= req.BigBlind {
		return engine.ActionResponse{Kind: engine.Call}
	}
	return engine.ActionResponse{Kind: engine.Fold}
}

// raise targets a pot-growth multiple, floored at the minimum raise and
// capped near the stack so the engine clamps rather than penalizes.
func (a *TAG) raise(req *engine.ActionRequest, potGrowth float64) engine.ActionResponse {
	if !req.Legal(engine.RaiseTo) {
		if req.Legal(engine.Call) {
			return engine.ActionResponse{Kind: engine.Call}
		}
		return engine.ActionResponse{Kind: engine.Check}
	}
	target := int(float64(req.Pot) * potGrowth)
	amount := max(req.MinRaiseTo, target)
	maxAllowed := req.Stacks[req.SeatID] + req.ToCall + req.BigBlind
	return engine.ActionResponse{Kind: engine.RaiseTo, Amount: min(amount, maxAllowed)}
}
