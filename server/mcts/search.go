package mcts

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/combin"

	"holdem-mcts/server/engine"
)

// Outcome of one rollout from the player's point of view.
type Outcome int

const (
	Loss Outcome = 0
	Win  Outcome = 1
)

// search runs the four MCTS phases over one tree. Everything random draws
// from rng, so a seed fixes the whole run.
type search struct {
	tree    *Tree
	sampler *Sampler
	rng     *rand.Rand
	log     zerolog.Logger

	// candidates found by the last Select, reused by Expand on the same node.
	lastID    NodeID
	lastCands [][]engine.Card
}

func newSearch(player []engine.Card, rng *rand.Rand, limit int, log zerolog.Logger) *search {
	return &search{
		tree:    NewTree(player),
		sampler: NewSampler(rng, limit),
		rng:     rng,
		log:     log,
		lastID:  NoParent,
	}
}

// unexplored samples candidate combinations for id and drops those that already have a child.
func (s *search) unexplored(id NodeID) [][]engine.Card {
	n := s.tree.Node(id)
	if n.Street.Terminal() {
		return nil
	}
	k := n.Street.NewCards()
	pool := Available(n.Known)
	if len(pool) < k || len(n.Children) >= combin.Binomial(len(pool), k) {
		return nil
	}
	cands := s.sampler.SampleCombinations(pool, k)
	out := cands[:0]
	for _, c := range cands {
		if !s.tree.Explored(id, engine.Cards(c).Mask()) {
			out = append(out, c)
		}
	}
	return out
}

// Select walks down from id. It stops at the first node with an unexplored
// combination, or at a node without children; otherwise it follows the
// highest UCB1 child.
func (s *search) Select(id NodeID) NodeID {
	for {
		if cands := s.unexplored(id); len(cands) > 0 {
			s.lastID, s.lastCands = id, cands
			return id
		}
		if len(s.tree.Node(id).Children) == 0 {
			s.lastID, s.lastCands = NoParent, nil
			return id
		}
		id = s.bestChild(id)
	}
}

// bestChild keeps the first child on ties.
func (s *search) bestChild(id NodeID) NodeID {
	best, bestVal := NoParent, math.Inf(-1)
	for _, ch := range s.tree.Node(id).Children {
		if v := s.tree.UCB1(ch); best == NoParent || v > bestVal {
			best, bestVal = ch, v
		}
	}
	return best
}

// Expand adds one unexplored combination under id, chosen uniformly. ok is
// false for terminal nodes and when every combination is taken.
func (s *search) Expand(id NodeID) (NodeID, bool) {
	if s.tree.Node(id).Street.Terminal() {
		return NoParent, false
	}
	cands := s.lastCands
	if s.lastID != id {
		cands = s.unexplored(id)
	}
	s.lastID, s.lastCands = NoParent, nil
	if len(cands) == 0 {
		return NoParent, false
	}
	combo := cands[s.rng.Intn(len(cands))]
	return s.tree.AddChild(id, combo), true
}

// Simulate deals whatever the node leaves unknown and compares best-of-seven
// categories. Equal categories are settled by a fair coin.
func (s *search) Simulate(id NodeID) (Outcome, error) {
	n := s.tree.Node(id)
	full := make([]engine.Card, 0, engine.River.Known())
	full = append(full, n.Known...)
	if missing := engine.River.Known() - len(full); missing > 0 {
		draw, err := s.sampler.DrawRandom(Available(full), missing)
		if err != nil {
			return Loss, fmt.Errorf("rollout from %s: %w", n.Street, err)
		}
		full = append(full, draw...)
	}

	var mine, theirs [7]engine.Card
	copy(mine[:2], full[0:2])
	copy(theirs[:2], full[2:4])
	copy(mine[2:], full[4:9])
	copy(theirs[2:], full[4:9])
	pc, oc := engine.BestOfSeven(mine), engine.BestOfSeven(theirs)

	out := Loss
	switch {
	case pc > oc:
		out = Win
	case pc == oc && s.rng.Float64() < 0.5:
		out = Win
	}

	if e := s.log.Trace(); e.Enabled() {
		pd, _ := engine.Describe(mine[:])
		od, _ := engine.Describe(theirs[:])
		e.Str("street", n.Street.String()).
			Str("board", engine.Cards(full[4:9]).String()).
			Str("player", pd).
			Str("opponent", od).
			Int("outcome", int(out)).
			Msg("rollout")
	}
	return out, nil
}

// Backpropagate credits o to id and every ancestor up to the root.
func (s *search) Backpropagate(id NodeID, o Outcome) {
	for id != NoParent {
		n := s.tree.Node(id)
		n.Visits++
		n.Wins += int(o)
		id = n.Parent
	}
}

func (s *search) iterate() error {
	target := s.Select(s.tree.Root())
	if !s.tree.Node(target).Street.Terminal() {
		if child, ok := s.Expand(target); ok {
			target = child
		}
	}
	o, err := s.Simulate(target)
	if err != nil {
		return err
	}
	s.Backpropagate(target, o)
	return nil
}
