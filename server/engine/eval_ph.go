package engine

import (
	"fmt"

	poker "github.com/paulhankin/poker"
)

// Convert our engine.Card -> library card.
func toPH(c Card) (poker.Card, error) {
	var none poker.Card
	var s poker.Suit
	switch c.Suit {
	case Clubs:
		s = poker.Club
	case Diamonds:
		s = poker.Diamond
	case Hearts:
		s = poker.Heart
	case Spades:
		s = poker.Spade
	default:
		return none, fmt.Errorf("%w: suit %d", ErrInvalidCard, c.Suit)
	}
	// Our ranks: 2..14 (Ace=14). Library: 1..13 (Ace=1).
	r := poker.Rank(c.Rank)
	if c.Rank == MaxRank {
		r = poker.Rank(1)
	}
	pc, err := poker.MakeCard(s, r)
	if err != nil {
		return none, fmt.Errorf("%w: %v: %v", ErrInvalidCard, c, err)
	}
	return pc, nil
}

// Describe names the best hand in 5 to 7 cards with full kicker detail,
// e.g. "pair of aces". Used for logs and reports only; search scoring stays
// on Category.
func Describe(cards []Card) (string, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return "", fmt.Errorf("describe needs 5 to 7 cards, got %d", len(cards))
	}
	pcs := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := toPH(c)
		if err != nil {
			return "", err
		}
		pcs[i] = pc
	}
	return poker.Describe(pcs)
}
