package engine

import "errors"

var ErrInvalidCard = errors.New("invalid card")

type Suit int

const (
	Hearts Suit = iota
	Clubs
	Spades
	Diamonds
)

const (
	MinRank  = 2
	MaxRank  = 14 // ace
	DeckSize = 52
)

type Card struct {
	Rank int
	Suit Suit
} // e.g. "AH" => rank 14, suit Hearts

// Cards is an ordered hand, board or pool. Order carries no meaning for Mask.
type Cards []Card
