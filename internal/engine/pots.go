package engine

import (
	"sort"

	"holdembench/poker"
)

// Pot is one tier of the (possibly split) pot. Eligible lists the
// non-folded seats whose contribution reached this tier.
type Pot struct {
	Size     int
	Eligible []int
}

// buildPots slices the contributions into main and side pots. Each distinct
// positive contribution level closes one tier; a folded seat's chips stay in
// the tier but the seat is not eligible to win it. A tier with exactly one
// eligible seat is the uncalled-bet refund.
func (h *handRun) buildPots() []Pot {
	levels := make([]int, 0, len(h.contributions))
	seen := make(map[int]bool, len(h.contributions))
	for _, amount := range h.contributions {
		if amount > 0 && !seen[amount] {
			seen[amount] = true
			levels = append(levels, amount)
		}
	}
	sort.Ints(levels)

	seats := make([]int, 0, len(h.contributions))
	for seat := range h.contributions {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	pots := make([]Pot, 0, len(levels))
	previous := 0
	for _, level := range levels {
		contributors := 0
		eligible := make([]int, 0, len(seats))
		for _, seat := range seats {
			if h.contributions[seat] < level {
				continue
			}
			contributors++
			if !h.seats[seat].Folded {
				eligible = append(eligible, seat)
			}
		}
		pots = append(pots, Pot{Size: (level - previous) * contributors, Eligible: eligible})
		previous = level
	}
	return pots
}

// oddChipOrder is the seat rotation used to hand out indivisible remainder
// chips, starting immediately left of the button.
func (h *handRun) oddChipOrder() []int {
	order := make([]int, 0, h.cfg.SeatCount)
	seat := seatAfter(h.button, h.cfg.SeatCount)
	for i := 0; i < h.cfg.SeatCount; i++ {
		order = append(order, seat)
		seat = seatAfter(seat, h.cfg.SeatCount)
	}
	return order
}

// resolveShowdown evaluates every non-folded seat against the board and
// awards each pot tier to its best eligible hand, splitting ties with the
// odd-chip rotation.
func (h *handRun) resolveShowdown() (map[int]int, error) {
	pots := h.buildPots()
	payouts := make(map[int]int, len(h.seats))
	for seat := range h.seats {
		payouts[seat] = 0
	}

	values := make(map[int]poker.HandValue, len(h.seats))
	for seat, s := range h.seats {
		if s.Folded {
			continue
		}
		cards := make([]poker.Card, 0, len(s.HoleCards)+len(h.board))
		cards = append(cards, s.HoleCards...)
		cards = append(cards, h.board...)
		value, err := poker.BestHand(cards)
		if err != nil {
			return nil, integrationErrorf("seat %d showdown evaluation: %v", seat, err)
		}
		values[seat] = value
	}

	chipOrder := h.oddChipOrder()
	for _, pot := range pots {
		if len(pot.Eligible) == 0 {
			continue
		}
		winners := make([]int, 0, len(pot.Eligible))
		for _, seat := range pot.Eligible {
			if len(winners) == 0 {
				winners = append(winners, seat)
				continue
			}
			switch values[seat].Compare(values[winners[0]]) {
			case 1:
				winners = winners[:0]
				winners = append(winners, seat)
			case 0:
				winners = append(winners, seat)
			}
		}

		share := pot.Size / len(winners)
		remainder := pot.Size % len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}
		if remainder > 0 {
			isWinner := make(map[int]bool, len(winners))
			for _, seat := range winners {
				isWinner[seat] = true
			}
			for _, seat := range chipOrder {
				if !isWinner[seat] {
					continue
				}
				payouts[seat]++
				remainder--
				if remainder == 0 {
					break
				}
			}
		}
	}
	return payouts, nil
}
