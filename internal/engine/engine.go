package engine

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"holdembench/poker"
)

// Engine plays deterministic no-limit hold'em hands for a fixed table
// configuration. It is stateless across hands; callers own the seat and
// agent lifecycles.
type Engine struct {
	cfg    TableConfig
	sink   Sink
	clock  quartz.Clock
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink attaches an event sink. Without one, events are dropped.
func WithSink(sink Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithClock overrides the wall clock used for timebank measurement.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger overrides the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New validates the configuration and builds an engine.
func New(cfg TableConfig, opts ...Option) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("table config: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the effective table configuration.
func (e *Engine) Config() TableConfig {
	return e.cfg
}

// HandID renders the canonical hand identifier for a replay key.
func HandID(seed int64, handIndex, replicaID int) string {
	return fmt.Sprintf("%d-%d-%d", seed, handIndex, replicaID)
}

// HandParams identifies one hand to play. Deck may be nil, in which case
// the engine derives it from (Seed, HandIndex, ReplicaID).
type HandParams struct {
	Seed       int64
	HandIndex  int
	ReplicaID  int
	ButtonSeat int
	Seats      map[int]*SeatState
	Agents     map[int]Agent
	Deck       []poker.Card
}

// handRun is the mutable state of one hand in flight.
type handRun struct {
	eng    *Engine
	cfg    TableConfig
	handID string
	rngTag string
	button int

	seats         map[int]*SeatState
	agents        map[int]Agent
	contributions map[int]int
	pot           int
	board         []poker.Card
	history       []HistoryEntry

	deck []poker.Card
	next int
}

func (h *handRun) draw() poker.Card {
	c := h.deck[h.next]
	h.next++
	return c
}

func (h *handRun) sortedSeats() []int {
	seats := make([]int, 0, len(h.seats))
	for seat := range h.seats {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	return seats
}

// PlayHand plays a single hand to completion and returns the per-seat chip
// deltas. Replaying the same HandParams with deterministic agents yields an
// identical transcript. Errors are integration faults only; agent decision
// faults are absorbed as fallbacks and penalties.
func (e *Engine) PlayHand(p HandParams) (map[int]int, error) {
	if e.cfg.Straddle {
		return nil, integrationErrorf("straddle is configured but not supported")
	}
	if p.ButtonSeat < 0 || p.ButtonSeat >= e.cfg.SeatCount {
		return nil, integrationErrorf("button seat %d out of range for %d seats", p.ButtonSeat, e.cfg.SeatCount)
	}
	for seat := range p.Seats {
		if _, ok := p.Agents[seat]; !ok {
			return nil, integrationErrorf("seat %d has no agent", seat)
		}
	}

	deck := p.Deck
	if deck == nil {
		deck = poker.ShuffledDeck(p.Seed, p.HandIndex, p.ReplicaID)
	}
	if err := poker.ValidateDeck(deck); err != nil {
		return nil, integrationErrorf("deck: %v", err)
	}

	h := &handRun{
		eng:           e,
		cfg:           e.cfg,
		handID:        HandID(p.Seed, p.HandIndex, p.ReplicaID),
		rngTag:        fmt.Sprintf("%d:%d:%d", p.Seed, p.HandIndex, p.ReplicaID),
		button:        p.ButtonSeat,
		seats:         p.Seats,
		agents:        p.Agents,
		contributions: make(map[int]int, len(p.Seats)),
		deck:          deck,
	}

	for _, seat := range h.sortedSeats() {
		s := h.seats[seat]
		stack := s.Stack
		if e.cfg.AutoTopUp {
			stack = e.cfg.StartingStack
		}
		s.ResetForHand(stack)
		h.contributions[seat] = 0
	}

	seatNames := make(map[int]string, len(h.seats))
	for seat, s := range h.seats {
		seatNames[seat] = s.Name
	}
	for _, seat := range h.sortedSeats() {
		h.agents[seat].Reset(seat, TableContext{
			SeatCount:     e.cfg.SeatCount,
			SmallBlind:    e.cfg.SmallBlind,
			BigBlind:      e.cfg.BigBlind,
			StartingStack: e.cfg.StartingStack,
			SeatID:        seat,
			SeatNames:     seatNames,
		})
	}

	seatsPayload := make(map[int]map[string]any, len(h.seats))
	for _, seat := range h.sortedSeats() {
		seatsPayload[seat] = map[string]any{"name": h.seats[seat].Name, "stack": h.seats[seat].Stack}
	}
	e.emit(EventHandStart, map[string]any{
		"table_id":    e.cfg.TableID,
		"hand_id":     h.handID,
		"seed":        p.Seed,
		"hand_index":  p.HandIndex,
		"replica_id":  p.ReplicaID,
		"button_seat": h.button,
		"blinds":      map[string]int{"sb": e.cfg.SmallBlind, "bb": e.cfg.BigBlind},
		"seats":       seatsPayload,
		"rng_tag":     h.rngTag,
	})

	h.postAntes()
	h.postBlinds()
	h.dealHoleCards()

	currentBet := 0
	for _, s := range h.seats {
		if s.Bet > currentBet {
			currentBet = s.Bet
		}
	}
	lastFullRaise := e.cfg.BigBlind

	result, currentBet, lastFullRaise, err := h.bettingRound(Preflop, currentBet, lastFullRaise)
	if err != nil {
		return nil, err
	}
	lastAggressor := -1
	if result.aggression {
		lastAggressor = result.lastAggressor
	}

	if winner, done := h.soleSurvivor(); done {
		return h.finishFoldOut(winner)
	}

	autoRunout := result.everyoneAllIn && e.cfg.RunOutWhenAllIn

	for _, street := range []Street{Flop, Turn, River} {
		if autoRunout {
			break
		}
		h.dealBoard(street)
		for _, s := range h.seats {
			s.Bet = 0
		}
		currentBet = 0
		lastFullRaise = 0

		result, currentBet, lastFullRaise, err = h.bettingRound(street, currentBet, lastFullRaise)
		if err != nil {
			return nil, err
		}
		lastAggressor = -1
		if result.aggression {
			lastAggressor = result.lastAggressor
		}

		if winner, done := h.soleSurvivor(); done {
			return h.finishFoldOut(winner)
		}
		if result.everyoneAllIn && e.cfg.RunOutWhenAllIn {
			autoRunout = true
			break
		}
	}

	if autoRunout {
		h.runOutBoard()
	}

	if winner, done := h.soleSurvivor(); done {
		return h.finishFoldOut(winner)
	}

	payouts, err := h.resolveShowdown()
	if err != nil {
		return nil, err
	}
	h.announceShowdown(payouts, lastAggressor)
	return h.applyPayouts(payouts)
}

// postAntes collects antes in seating order starting at the button. Antes
// go straight to the pot without counting toward the street bet.
func (h *handRun) postAntes() {
	if h.cfg.Ante <= 0 {
		return
	}
	for offset := 0; offset < h.cfg.SeatCount; offset++ {
		seat := (h.button + offset) % h.cfg.SeatCount
		s, ok := h.seats[seat]
		if !ok || s.SittingOut {
			continue
		}
		posted := min(h.cfg.Ante, s.Stack)
		if posted == 0 {
			s.AllIn = true
			continue
		}
		s.Stack -= posted
		if s.Stack == 0 {
			s.AllIn = true
		}
		h.contributions[seat] += posted
		h.pot += posted
		h.eng.emit(EventAnte, map[string]any{"seat": seat, "amount": posted})
	}
}

// blindSeats returns (small, big). Heads-up the button posts the small
// blind.
func (h *handRun) blindSeats() (int, int) {
	if h.cfg.SeatCount == 2 {
		return h.button, seatAfter(h.button, h.cfg.SeatCount)
	}
	sb := seatAfter(h.button, h.cfg.SeatCount)
	return sb, seatAfter(sb, h.cfg.SeatCount)
}

func (h *handRun) postBlinds() {
	sbSeat, bbSeat := h.blindSeats()
	h.postBlind(sbSeat, h.cfg.SmallBlind, "small")
	h.postBlind(bbSeat, h.cfg.BigBlind, "big")
}

func (h *handRun) postBlind(seat, amount int, kind string) {
	s, ok := h.seats[seat]
	if !ok || s.SittingOut {
		return
	}
	if s.Stack == 0 {
		s.AllIn = true
		return
	}
	posted := s.commit(amount)
	h.contributions[seat] += posted
	h.pot += posted
	h.eng.emit(EventBlind, map[string]any{"seat": seat, "amount": posted, "type": kind})
}

// dealHoleCards deals one card at a time, two passes, starting left of the
// button.
func (h *handRun) dealHoleCards() {
	for pass := 0; pass < 2; pass++ {
		for offset := 0; offset < h.cfg.SeatCount; offset++ {
			seat := (h.button + 1 + offset) % h.cfg.SeatCount
			s, ok := h.seats[seat]
			if !ok || s.SittingOut {
				continue
			}
			s.HoleCards = append(s.HoleCards, h.draw())
		}
	}
	for _, seat := range h.sortedSeats() {
		s := h.seats[seat]
		if s.SittingOut {
			continue
		}
		h.eng.emit(EventDealHole, map[string]any{
			"hand_id": h.handID,
			"seat":    seat,
			"cards":   poker.CardStrings(s.HoleCards),
		})
	}
}

// dealBoard burns one card and deals the street.
func (h *handRun) dealBoard(street Street) {
	h.draw() // burn
	n := 1
	if street == Flop {
		n = 3
	}
	for i := 0; i < n; i++ {
		h.board = append(h.board, h.draw())
	}
	h.eng.emit(EventStreetTransition, map[string]any{
		"hand_id": h.handID,
		"street":  street.String(),
		"board":   poker.CardStrings(h.board),
	})
}

func (h *handRun) runOutBoard() {
	for len(h.board) < 5 {
		switch len(h.board) {
		case 0:
			h.dealBoard(Flop)
		case 3:
			h.dealBoard(Turn)
		case 4:
			h.dealBoard(River)
		}
	}
}

// soleSurvivor reports the only non-folded seat, if exactly one remains.
func (h *handRun) soleSurvivor() (int, bool) {
	winner := -1
	count := 0
	for _, seat := range h.sortedSeats() {
		if !h.seats[seat].Folded {
			winner = seat
			count++
		}
	}
	return winner, count == 1
}

func (h *handRun) finishFoldOut(winner int) (map[int]int, error) {
	total := 0
	for _, amount := range h.contributions {
		total += amount
	}
	payouts := map[int]int{winner: total}
	h.announceShowdown(payouts, -1)
	return h.applyPayouts(payouts)
}

func (h *handRun) announceShowdown(payouts map[int]int, lastAggressor int) {
	standings := make(map[int]map[string]any, len(h.seats))
	for _, seat := range h.sortedSeats() {
		s := h.seats[seat]
		standings[seat] = map[string]any{
			"cards": poker.CardStrings(s.HoleCards),
			"stack": s.Stack,
		}
	}
	payload := map[string]any{
		"hand_id":       h.handID,
		"board":         poker.CardStrings(h.board),
		"payouts":       payouts,
		"contributions": h.contributions,
		"standings":     standings,
	}
	if lastAggressor >= 0 {
		payload["last_aggressor"] = lastAggressor
	}
	h.eng.emit(EventShowdown, payload)
}

// applyPayouts credits winners, checks chip conservation, and returns the
// per-seat deltas for the hand.
func (h *handRun) applyPayouts(payouts map[int]int) (map[int]int, error) {
	totalIn, totalOut := 0, 0
	for _, amount := range h.contributions {
		totalIn += amount
	}
	for _, amount := range payouts {
		totalOut += amount
	}
	if totalIn != totalOut {
		return nil, integrationErrorf("chip conservation violated: %d in, %d out", totalIn, totalOut)
	}

	deltas := make(map[int]int, len(h.seats))
	for _, seat := range h.sortedSeats() {
		s := h.seats[seat]
		won := payouts[seat]
		s.Stack += won
		deltas[seat] = won - h.contributions[seat]
	}
	h.eng.emit(EventHandEnd, map[string]any{
		"hand_id":       h.handID,
		"payouts":       payouts,
		"contributions": h.contributions,
	})
	return deltas, nil
}
