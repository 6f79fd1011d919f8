package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// FullDeck returns a fresh 52-card deck, suit-major (hearts, clubs, spades, diamonds),
// ranks ascending within each suit.
func FullDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for s := Hearts; s <= Diamonds; s++ {
		for rnk := MinRank; rnk <= MaxRank; rnk++ {
			deck = append(deck, Card{Rank: rnk, Suit: s})
		}
	}
	return deck
}

func (c Card) Valid() bool {
	return c.Rank >= MinRank && c.Rank <= MaxRank && c.Suit >= Hearts && c.Suit <= Diamonds
}

// Index is the card's position in FullDeck.
func (c Card) Index() int { return int(c.Suit)*13 + c.Rank - MinRank }

func (c Card) Mask() uint64 {
	if !c.Valid() {
		return 0
	}
	return 1 << uint(c.Index())
}

// Mask is the order-independent set key of cs.
func (cs Cards) Mask() uint64 {
	var m uint64
	for _, c := range cs {
		m |= c.Mask()
	}
	return m
}

func (cs Cards) Contains(c Card) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

// Distinct reports whether no card appears twice.
func (cs Cards) Distinct() bool {
	var seen uint64
	for _, c := range cs {
		m := c.Mask()
		if seen&m != 0 {
			return false
		}
		seen |= m
	}
	return true
}

func (cs Cards) Strings() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

func (cs Cards) String() string { return strings.Join(cs.Strings(), " ") }

func (s Suit) String() string {
	if s < Hearts || s > Diamonds {
		return "?"
	}
	return string("HCSD"[s])
}

func (c Card) String() string {
	var r string
	switch c.Rank {
	case 11:
		r = "J"
	case 12:
		r = "Q"
	case 13:
		r = "K"
	case 14:
		r = "A"
	default:
		r = strconv.Itoa(c.Rank)
	}
	return r + c.Suit.String()
}

// ParseCard reads labels such as "AH", "10s", "Td" or "7c".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	var suit Suit
	switch s[len(s)-1] {
	case 'H':
		suit = Hearts
	case 'C':
		suit = Clubs
	case 'S':
		suit = Spades
	case 'D':
		suit = Diamonds
	default:
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}
	var rank int
	switch r := s[:len(s)-1]; r {
	case "A":
		rank = 14
	case "K":
		rank = 13
	case "Q":
		rank = 12
	case "J":
		rank = 11
	case "T", "10":
		rank = 10
	default:
		if len(r) == 1 && r[0] >= '2' && r[0] <= '9' {
			rank = int(r[0] - '0')
		}
	}
	if rank == 0 {
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func ParseCards(labels []string) (Cards, error) {
	out := make(Cards, 0, len(labels))
	for _, l := range labels {
		c, err := ParseCard(l)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
