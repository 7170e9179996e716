package poker

import (
	"fmt"
	"sort"
	"strings"
)

// Category enumerates hand categories from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandValue is the strength of a five-card hand: a category plus the kicker
// ranks that break ties within the category, in significance order. Values
// form a total order under Compare; hands of equal strength compare equal.
type HandValue struct {
	Category Category
	Kickers  []Rank
}

// Compare returns -1, 0 or 1 as v is weaker than, equal to, or stronger
// than o. Categories compare first, then kickers lexicographically.
func (v HandValue) Compare(o HandValue) int {
	if v.Category != o.Category {
		if v.Category < o.Category {
			return -1
		}
		return 1
	}
	n := len(v.Kickers)
	if len(o.Kickers) < n {
		n = len(o.Kickers)
	}
	for i := 0; i < n; i++ {
		if v.Kickers[i] != o.Kickers[i] {
			if v.Kickers[i] < o.Kickers[i] {
				return -1
			}
			return 1
		}
	}
	// Equal-length kicker lists within a category; nothing left to compare.
	return 0
}

func (v HandValue) String() string {
	parts := make([]string, len(v.Kickers))
	for i, k := range v.Kickers {
		parts[i] = k.String()
	}
	return fmt.Sprintf("%s (%s)", v.Category, strings.Join(parts, "-"))
}

// EvaluateFive evaluates exactly five cards. The wheel (A-2-3-4-5) counts as
// a five-high straight, not an ace-high one.
func EvaluateFive(cards []Card) HandValue {
	if len(cards) != 5 {
		panic(fmt.Sprintf("EvaluateFive requires 5 cards, got %d", len(cards)))
	}

	ranks := make([]Rank, 5)
	flush := true
	for i, c := range cards {
		ranks[i] = c.Rank
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	counts := make(map[Rank]int, 5)
	for _, r := range ranks {
		counts[r]++
	}

	// Distinct ranks in descending order.
	distinct := make([]Rank, 0, 5)
	for r := range counts {
		distinct = append(distinct, r)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] > distinct[j] })

	straightHigh, isStraight := straightHighCard(distinct)

	switch {
	case flush && isStraight:
		return HandValue{StraightFlush, []Rank{straightHigh}}
	case hasOfAKind(counts, 4):
		four := rankWithCount(counts, 4)
		kicker := highestExcept(distinct, four)
		return HandValue{FourOfAKind, []Rank{four, kicker}}
	case hasOfAKind(counts, 3) && hasOfAKind(counts, 2):
		return HandValue{FullHouse, []Rank{rankWithCount(counts, 3), rankWithCount(counts, 2)}}
	case flush:
		return HandValue{Flush, ranks}
	case isStraight:
		return HandValue{Straight, []Rank{straightHigh}}
	case hasOfAKind(counts, 3):
		trips := rankWithCount(counts, 3)
		return HandValue{ThreeOfAKind, append([]Rank{trips}, allExcept(distinct, trips)...)}
	case pairCount(counts) == 2:
		high, low := pairRanks(counts)
		return HandValue{TwoPair, []Rank{high, low, rankWithCount(counts, 1)}}
	case pairCount(counts) == 1:
		pair := rankWithCount(counts, 2)
		return HandValue{OnePair, append([]Rank{pair}, allExcept(distinct, pair)...)}
	default:
		return HandValue{HighCard, ranks}
	}
}

// BestHand evaluates every five-card subset of the given cards (21 subsets
// for a seven-card hand) and returns the strongest value.
func BestHand(cards []Card) (HandValue, error) {
	if len(cards) < 5 {
		return HandValue{}, fmt.Errorf("best hand requires at least 5 cards, got %d", len(cards))
	}
	if len(cards) == 5 {
		return EvaluateFive(cards), nil
	}

	var best HandValue
	combo := make([]Card, 5)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 5 {
			if v := EvaluateFive(combo); v.Compare(best) > 0 {
				best = v
			}
			return
		}
		for i := start; i <= len(cards)-(5-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return best, nil
}

// straightHighCard reports whether five distinct descending ranks form a
// straight, returning its high card. The wheel maps to a five-high straight.
func straightHighCard(distinct []Rank) (Rank, bool) {
	if len(distinct) != 5 {
		return 0, false
	}
	if distinct[0]-distinct[4] == 4 {
		return distinct[0], true
	}
	if distinct[0] == Ace && distinct[1] == Five && distinct[4] == Two {
		return Five, true
	}
	return 0, false
}

func hasOfAKind(counts map[Rank]int, n int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

// rankWithCount returns the highest rank appearing exactly n times.
func rankWithCount(counts map[Rank]int, n int) Rank {
	var best Rank
	for r, c := range counts {
		if c == n && r > best {
			best = r
		}
	}
	return best
}

func pairCount(counts map[Rank]int) int {
	pairs := 0
	for _, c := range counts {
		if c == 2 {
			pairs++
		}
	}
	return pairs
}

func pairRanks(counts map[Rank]int) (high, low Rank) {
	for r, c := range counts {
		if c != 2 {
			continue
		}
		if r > high {
			high, low = r, high
		} else if r > low {
			low = r
		}
	}
	return high, low
}

func highestExcept(distinct []Rank, skip Rank) Rank {
	for _, r := range distinct {
		if r != skip {
			return r
		}
	}
	return 0
}

func allExcept(distinct []Rank, skip Rank) []Rank {
	out := make([]Rank, 0, len(distinct))
	for _, r := range distinct {
		if r != skip {
			out = append(out, r)
		}
	}
	return out
}
