package engine

import (
	"time"

	"holdembench/poker"
)

// seatAfter returns the next seat clockwise.
func seatAfter(seat, seatCount int) int {
	return (seat + 1) % seatCount
}

// computeOrder returns the full seat rotation for a street. Preflop action
// opens left of the big blind (or on the button heads-up); postflop action
// opens left of the button.
func computeOrder(street Street, seatCount, buttonSeat int) []int {
	sb := seatAfter(buttonSeat, seatCount)
	bb := seatAfter(sb, seatCount)

	var first int
	if street == Preflop {
		if seatCount == 2 {
			first = buttonSeat
		} else {
			first = seatAfter(bb, seatCount)
		}
	} else {
		first = seatAfter(buttonSeat, seatCount)
	}

	order := make([]int, 0, seatCount)
	seat := first
	for i := 0; i < seatCount; i++ {
		order = append(order, seat)
		seat = seatAfter(seat, seatCount)
	}
	return order
}

// roundResult summarizes one betting round. lastAggressor is -1 when no
// bet or raise happened.
type roundResult struct {
	lastAggressor int
	aggression    bool
	everyoneAllIn bool
}

func (h *handRun) activeOrder(order []int) []int {
	active := make([]int, 0, len(order))
	for _, seat := range order {
		s, ok := h.seats[seat]
		if !ok || s.Folded || s.AllIn || s.SittingOut {
			continue
		}
		active = append(active, seat)
	}
	return active
}

func rotationAfter(order []int, seat int) []int {
	idx := -1
	for i, s := range order {
		if s == seat {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append([]int(nil), order...)
	}
	out := make([]int, 0, len(order)-1)
	out = append(out, order[idx+1:]...)
	out = append(out, order[:idx]...)
	return out
}

// pruneActed keeps acted flags only for seats still able to act.
func pruneActed(acted map[int]bool, active []int) map[int]bool {
	next := make(map[int]bool, len(active))
	for _, seat := range active {
		next[seat] = acted[seat]
	}
	return next
}

func (h *handRun) allNonFoldedAllIn() bool {
	any := false
	for _, s := range h.seats {
		if s.Folded {
			continue
		}
		any = true
		if !s.AllIn {
			return false
		}
	}
	return any
}

// roundComplete reports whether no seat with chips behind still owes a
// matching bet.
func (h *handRun) roundComplete(currentBet int) bool {
	contenders := make([]*SeatState, 0, len(h.seats))
	for _, s := range h.seats {
		if !s.Folded && !s.AllIn {
			contenders = append(contenders, s)
		}
	}
	if len(contenders) <= 1 {
		return true
	}
	for _, s := range contenders {
		if s.Bet != currentBet {
			return false
		}
	}
	return true
}

// minRaiseTarget is the smallest total bet a full raise must reach. Opening
// bets must reach the big blind; raises must add at least the last full
// raise, never less than a big blind.
func (h *handRun) minRaiseTarget(currentBet, lastFullRaise int) int {
	if currentBet == 0 {
		return max(h.cfg.BigBlind, 1)
	}
	return currentBet + max(lastFullRaise, h.cfg.BigBlind)
}

func (h *handRun) legalActions(s *SeatState, toCall int, allowRaise bool) []ActionKind {
	legal := []ActionKind{Fold}
	if toCall == 0 {
		legal = append(legal, Check)
	} else if s.Stack > 0 {
		legal = append(legal, Call)
	}
	if allowRaise && s.Stack > 0 && s.maxTotal() > s.Bet+toCall {
		legal = append(legal, RaiseTo)
	}
	return legal
}

// fallbackAction substitutes for a timed-out or illegal decision. Both
// policies degrade toward the cheapest legal action when the preferred one
// is unavailable.
func fallbackAction(policy FallbackPolicy, toCall int, legal []ActionKind) ActionResponse {
	has := func(k ActionKind) bool {
		for _, l := range legal {
			if l == k {
				return true
			}
		}
		return false
	}
	if policy == FallbackFold && has(Fold) {
		return ActionResponse{Kind: Fold}
	}
	if toCall == 0 && has(Check) {
		return ActionResponse{Kind: Check}
	}
	if has(Fold) {
		return ActionResponse{Kind: Fold}
	}
	if has(Call) {
		return ActionResponse{Kind: Call}
	}
	return ActionResponse{Kind: legal[0]}
}

// bettingRound runs one street of action and returns the round summary plus
// the final current bet and last full raise. The pot and seat states mutate
// in place.
func (h *handRun) bettingRound(street Street, currentBet, lastFullRaise int) (roundResult, int, int, error) {
	if h.allNonFoldedAllIn() {
		return roundResult{lastAggressor: -1, everyoneAllIn: true}, currentBet, lastFullRaise, nil
	}

	order := computeOrder(street, h.cfg.SeatCount, h.button)
	active := h.activeOrder(order)
	if len(active) == 0 {
		return roundResult{lastAggressor: -1, everyoneAllIn: h.allNonFoldedAllIn()}, currentBet, lastFullRaise, nil
	}

	acted := make(map[int]bool, len(active))
	for _, seat := range active {
		acted[seat] = false
	}
	queue := append([]int(nil), active...)
	lastAggressor := -1
	aggression := false

	// refill re-queues the seats that still owe action; it reports false
	// when the round is settled.
	refill := func() bool {
		active = h.activeOrder(order)
		remaining := make([]int, 0, len(active))
		for _, s := range active {
			if currentBet-h.seats[s].Bet > 0 || !acted[s] {
				remaining = append(remaining, s)
			}
		}
		if len(remaining) > 0 {
			queue = append(queue[:0], remaining...)
			return true
		}
		if h.roundComplete(currentBet) {
			return false
		}
		queue = append(queue[:0], active...)
		return true
	}

	for len(queue) > 0 {
		seat := queue[0]
		queue = queue[1:]
		s := h.seats[seat]

		if s.Folded || s.AllIn {
			active = h.activeOrder(order)
			acted = pruneActed(acted, active)
			continue
		}

		toCall := currentBet - s.Bet
		if toCall <= 0 && acted[seat] {
			if len(queue) == 0 && !refill() {
				break
			}
			continue
		}

		minRaiseTo := h.minRaiseTarget(currentBet, lastFullRaise)
		allowRaise := !acted[seat]
		legal := h.legalActions(s, toCall, allowRaise)

		req := h.buildRequest(street, seat, toCall, minRaiseTo, legal)
		resp, elapsed := h.invokeAgent(seat, req)

		if !resp.Kind.valid() {
			return roundResult{}, currentBet, lastFullRaise,
				integrationErrorf("agent %s returned unknown action kind %d", h.agents[seat].Name(), resp.Kind)
		}

		if elapsed > h.cfg.Timebank {
			s.Timeouts++
			fb := fallbackAction(h.cfg.TimeoutFallback, toCall, legal)
			h.eng.emit(EventPenalty, map[string]any{
				"hand_id":    h.handID,
				"seat":       seat,
				"kind":       "timeout",
				"elapsed_ms": elapsed.Milliseconds(),
				"fallback":   fb.Kind.String(),
			})
			resp = fb
			elapsed = h.cfg.Timebank
		}

		resp, penalty := h.normalizeAction(seat, s, resp, legal, toCall, minRaiseTo)
		if penalty != nil {
			s.IllegalActions++
			h.eng.emit(EventPenalty, penalty)
		}

		potDelta := 0
		switch resp.Kind {
		case Fold:
			s.Folded = true
			active = h.activeOrder(order)
			acted = pruneActed(acted, active)
			queue = append(queue[:0], active...)
		case Check:
			acted[seat] = true
		case Call:
			added := s.commit(toCall)
			h.contributions[seat] += added
			h.pot += added
			potDelta = added
			acted[seat] = true
		case RaiseTo:
			added, newBet, newLFR, full := h.applyRaiseTo(s, resp.Amount, currentBet, lastFullRaise)
			currentBet = newBet
			lastFullRaise = newLFR
			h.contributions[seat] += added
			h.pot += added
			potDelta = added
			aggression = true
			lastAggressor = seat

			active = h.activeOrder(order)
			next := make(map[int]bool, len(active))
			for _, a := range active {
				if full {
					// A full raise reopens the action for everyone else.
					next[a] = a == seat
				} else {
					next[a] = a == seat || acted[a]
				}
			}
			acted = next
			queue = append(queue[:0], rotationAfter(active, seat)...)
		}

		h.history = append(h.history, HistoryEntry{
			SeatID:     seat,
			Kind:       resp.Kind,
			Amount:     resp.Amount,
			Street:     street,
			ToCall:     toCall,
			MinRaiseTo: minRaiseTo,
		})
		h.eng.emit(EventAction, map[string]any{
			"hand_id":      h.handID,
			"seat":         seat,
			"action":       resp.Kind.String(),
			"amount":       resp.Amount,
			"to_call":      toCall,
			"min_raise_to": minRaiseTo,
			"elapsed_ms":   elapsed.Milliseconds(),
			"stack_after":  s.Stack,
			"bet":          s.Bet,
			"street":       street.String(),
			"pot_delta":    potDelta,
			"pot":          h.pot,
		})

		if h.allNonFoldedAllIn() {
			return roundResult{lastAggressor: lastAggressor, aggression: aggression, everyoneAllIn: true},
				currentBet, lastFullRaise, nil
		}
		if h.roundComplete(currentBet) && len(queue) == 0 {
			break
		}
		if len(queue) == 0 && !refill() {
			break
		}
	}

	return roundResult{lastAggressor: lastAggressor, aggression: aggression, everyoneAllIn: h.allNonFoldedAllIn()},
		currentBet, lastFullRaise, nil
}

func (h *handRun) buildRequest(street Street, seat, toCall, minRaiseTo int, legal []ActionKind) *ActionRequest {
	stacks := make(map[int]int, len(h.seats))
	for id, s := range h.seats {
		stacks[id] = s.Stack
	}
	return &ActionRequest{
		TableID:      h.cfg.TableID,
		HandID:       h.handID,
		SeatCount:    h.cfg.SeatCount,
		SeatID:       seat,
		ButtonSeat:   h.button,
		SmallBlind:   h.cfg.SmallBlind,
		BigBlind:     h.cfg.BigBlind,
		Stacks:       stacks,
		Pot:          h.pot,
		ToCall:       toCall,
		MinRaiseTo:   minRaiseTo,
		HoleCards:    append([]poker.Card(nil), h.seats[seat].HoleCards...),
		Board:        append([]poker.Card(nil), h.board...),
		History:      append([]HistoryEntry(nil), h.history...),
		LegalActions: legal,
		Timebank:     h.cfg.Timebank,
		RNGTag:       h.rngTag,
	}
}

// invokeAgent measures the blocking Act call. Self-reported external wait
// (provider throttling) is excluded from the timebank.
func (h *handRun) invokeAgent(seat int, req *ActionRequest) (ActionResponse, time.Duration) {
	start := h.eng.clock.Now()
	resp := h.agents[seat].Act(req)
	elapsed := h.eng.clock.Since(start) - resp.ExternalWait
	if elapsed < 0 {
		elapsed = 0
	}
	return resp, elapsed
}

// normalizeAction validates a response against the legal action set and the
// raise sizing rules. Violations substitute the configured fallback and
// return a penalty payload for the event stream.
func (h *handRun) normalizeAction(seat int, s *SeatState, resp ActionResponse, legal []ActionKind, toCall, minRaiseTo int) (ActionResponse, map[string]any) {
	penalize := func() (ActionResponse, map[string]any) {
		fb := fallbackAction(h.cfg.IllegalFallback, toCall, legal)
		return fb, map[string]any{
			"hand_id":   h.handID,
			"seat":      seat,
			"kind":      "illegal_action",
			"attempted": map[string]any{"action": resp.Kind.String(), "amount": resp.Amount},
			"fallback":  fb.Kind.String(),
		}
	}

	inLegal := false
	for _, l := range legal {
		if l == resp.Kind {
			inLegal = true
			break
		}
	}
	if !inLegal {
		return penalize()
	}
	if resp.Kind != RaiseTo {
		return resp, nil
	}

	desired := resp.Amount
	callTotal := s.Bet + toCall
	maxTotal := s.maxTotal()

	if maxTotal <= callTotal || desired <= callTotal {
		return penalize()
	}
	if maxTotal >= minRaiseTo && desired < minRaiseTo {
		return penalize()
	}
	// Short of a full raise the only legal raise is the full stack.
	if maxTotal < minRaiseTo && desired != maxTotal {
		return penalize()
	}
	if desired > maxTotal {
		desired = maxTotal
	}
	return ActionResponse{Kind: RaiseTo, Amount: desired}, nil
}

// applyRaiseTo commits the raise and decides whether it reopens the action.
// An all-in push that reaches the full-raise threshold reopens like any
// other full raise.
func (h *handRun) applyRaiseTo(s *SeatState, desired, currentBet, lastFullRaise int) (added, newBet, newLFR int, full bool) {
	if desired > s.maxTotal() {
		desired = s.maxTotal()
	}
	added = s.commit(desired - s.Bet)

	newLFR = lastFullRaise
	if currentBet == 0 {
		if desired >= h.cfg.BigBlind {
			full = true
			newLFR = desired
		}
		newBet = desired
	} else {
		if desired >= h.minRaiseTarget(currentBet, lastFullRaise) {
			full = true
			newLFR = desired - currentBet
		}
		newBet = max(currentBet, desired)
	}
	return added, newBet, newLFR, full
}
