package agents

import "holdembench/internal/engine"

// Station never bets and never folds while calling is possible. It is the
// passive anchor of the baseline pool.
type Station struct{}

func NewStation() *Station { return &Station{} }

func (a *Station) Name() string { return "Station" }

func (a *Station) Reset(seatID int, table engine.TableContext) {}

func (a *Station) Act(req *engine.ActionRequest) engine.ActionResponse {
	if req.Legal(engine.Check) {
		return engine.ActionResponse{Kind: engine.Check}
	}
	if req.Legal(engine.Call) {
		return engine.ActionResponse{Kind: engine.Call}
	}
	return engine.ActionResponse{Kind: engine.Fold}
}
