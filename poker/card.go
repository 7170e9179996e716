// Package poker provides card primitives, deterministic deck generation and
// a verifiable hand-strength comparator for No-Limit Texas Hold'em.
package poker

import (
	"fmt"
	"strings"
)

// Rank is a card rank from Two (2) to Ace (14). Aces are high except in the
// wheel straight, which the evaluator special-cases.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string("23456789TJQKA"[r-Two])
}

// Suit is one of the four card suits.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	if s > Clubs {
		return "?"
	}
	return string("shdc"[s])
}

// Card is an immutable rank/suit pair.
type Card struct {
	Rank Rank
	Suit Suit
}

// String renders the card in compact two-character notation, e.g. "As", "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard parses two-character notation like "Ah" or "9c".
func ParseCard(token string) (Card, error) {
	token = strings.TrimSpace(token)
	if len(token) != 2 {
		return Card{}, fmt.Errorf("invalid card token %q", token)
	}

	rankIdx := strings.IndexByte("23456789TJQKA", token[0])
	if rankIdx < 0 {
		return Card{}, fmt.Errorf("invalid rank in card token %q", token)
	}
	suitIdx := strings.IndexByte("shdc", token[1])
	if suitIdx < 0 {
		return Card{}, fmt.Errorf("invalid suit in card token %q", token)
	}

	return Card{Rank: Rank(rankIdx + 2), Suit: Suit(suitIdx)}, nil
}

// ParseCards parses a whitespace-separated list of card tokens.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixed test fixtures; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// CardStrings renders cards to their compact notation, preserving order.
func CardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// NewDeck returns the 52-card deck in canonical order: ranks ascending,
// suits in s, h, d, c order within each rank.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for r := Two; r <= Ace; r++ {
		for s := Spades; s <= Clubs; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}
