package mcts

import "errors"

var (
	// ErrDegenerateInput rejects anything other than two valid, distinct hole
	// cards, and negative iteration counts.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrInsufficientCards means a draw asked for more cards than the pool holds.
	ErrInsufficientCards = errors.New("insufficient cards")
)
