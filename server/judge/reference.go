package judge

import "holdem-mcts/server/engine"

// Hand is a named starting hand with its published heads-up win rate.
type Hand struct {
	Name     string        `json:"name"`
	Cards    []engine.Card `json:"-"`
	Labels   []string      `json:"cards"`
	Expected float64       `json:"expected"`
}

func hand(name string, expected float64, cards ...engine.Card) Hand {
	return Hand{Name: name, Cards: cards, Labels: engine.Cards(cards).Strings(), Expected: expected}
}

func card(rank int, suit engine.Suit) engine.Card { return engine.Card{Rank: rank, Suit: suit} }

// ReferenceHands are three strong, three medium and three weak hands.
func ReferenceHands() []Hand {
	h, c := engine.Hearts, engine.Clubs
	return []Hand{
		hand("Pocket Aces", 0.85, card(14, h), card(14, c)),
		hand("Pocket Kings", 0.82, card(13, h), card(13, c)),
		hand("AK suited", 0.67, card(14, h), card(13, h)),

		hand("Pocket Queens", 0.80, card(12, h), card(12, c)),
		hand("Pocket Tens", 0.75, card(10, h), card(10, c)),
		hand("AQ offsuit", 0.60, card(14, h), card(12, c)),

		hand("7-2 offsuit", 0.12, card(7, h), card(2, c)),
		hand("8-3 offsuit", 0.15, card(8, h), card(3, c)),
		hand("9-4 offsuit", 0.18, card(9, h), card(4, c)),
	}
}
