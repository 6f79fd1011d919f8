package engine

// Street is how far a hand has been revealed: our hole cards, then the
// opponent's, then flop, turn and river.
type Street int

const (
	Preflop Street = iota
	Dealt
	Flop
	Turn
	River
)

var streetNames = [...]string{"preflop", "dealt", "flop", "turn", "river"}

func (s Street) String() string {
	if s < Preflop || s > River {
		return "unknown"
	}
	return streetNames[s]
}

// NewCards is the number of cards revealed to move from s to the next street.
func (s Street) NewCards() int {
	switch s {
	case Preflop:
		return 2 // opponent hole cards
	case Dealt:
		return 3
	case Flop, Turn:
		return 1
	}
	return 0
}

// Known is the number of cards fixed once s is reached.
func (s Street) Known() int {
	switch s {
	case Preflop:
		return 2
	case Dealt:
		return 4
	case Flop:
		return 7
	case Turn:
		return 8
	}
	return 9
}

func (s Street) Terminal() bool { return s >= River }

func (s Street) Next() Street {
	if s.Terminal() {
		return River
	}
	return s + 1
}
