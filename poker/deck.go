package poker

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// ShuffledDeck returns the 52-card permutation for a (seed, handIndex,
// replicaID) triple. The same triple always yields the same sequence, which
// is what lets independent lineups replay "the same cards".
//
// The algorithm is fixed so replays are portable: the composite key
// "seed:handIndex:replicaID" is hashed with 64-bit FNV-1a, the hash seeds a
// math/rand source, and the canonical deck is permuted with rand.Shuffle
// (Fisher-Yates).
func ShuffledDeck(seed int64, handIndex, replicaID int) []Card {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d:%d", seed, handIndex, replicaID)

	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// ValidateDeck checks that cards is a full 52-card sequence with no
// duplicates, which the hand engine requires of every deck it is handed.
func ValidateDeck(cards []Card) error {
	if len(cards) != 52 {
		return fmt.Errorf("deck has %d cards, want 52", len(cards))
	}
	seen := make(map[Card]bool, 52)
	for _, c := range cards {
		if c.Rank < Two || c.Rank > Ace || c.Suit > Clubs {
			return fmt.Errorf("deck contains invalid card %v", c)
		}
		if seen[c] {
			return fmt.Errorf("deck contains duplicate card %s", c)
		}
		seen[c] = true
	}
	return nil
}
