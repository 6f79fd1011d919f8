package mcts

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat/combin"

	"holdem-mcts/server/engine"
)

// DefaultComboCap bounds how many candidate combinations one expansion step
// considers. C(46,3) = 15180 flops would otherwise be enumerated.
const DefaultComboCap = 1000

// Available is the deck minus known, in deck order.
func Available(known []engine.Card) []engine.Card {
	used := engine.Cards(known).Mask()
	deck := engine.FullDeck()
	out := deck[:0]
	for _, c := range deck {
		if used&c.Mask() == 0 {
			out = append(out, c)
		}
	}
	return out
}

type Sampler struct {
	rng *rand.Rand
	Cap int
}

// NewSampler uses DefaultComboCap when limit <= 0.
func NewSampler(rng *rand.Rand, limit int) *Sampler {
	if limit <= 0 {
		limit = DefaultComboCap
	}
	return &Sampler{rng: rng, Cap: limit}
}

// SampleCombinations returns every k-subset of pool when there are at most Cap of
// them (lexicographic by pool position), otherwise Cap distinct subsets chosen
// uniformly without replacement. Nil when k <= 0 or the pool is too small.
func (s *Sampler) SampleCombinations(pool []engine.Card, k int) [][]engine.Card {
	n := len(pool)
	if k <= 0 || n < k {
		return nil
	}
	total := combin.Binomial(n, k)
	idx := make([]int, k)
	if total <= s.Cap {
		out := make([][]engine.Card, 0, total)
		gen := combin.NewCombinationGenerator(n, k)
		for gen.Next() {
			out = append(out, pick(pool, gen.Combination(idx)))
		}
		return out
	}

	// Floyd: Cap distinct indices out of [0, total), each mapped back to its combination.
	out := make([][]engine.Card, 0, s.Cap)
	chosen := make(map[int]struct{}, s.Cap)
	for j := total - s.Cap; j < total; j++ {
		r := s.rng.Intn(j + 1)
		if _, dup := chosen[r]; dup {
			r = j
		}
		chosen[r] = struct{}{}
		out = append(out, pick(pool, combin.IndexToCombination(idx, r, n, k)))
	}
	return out
}

// DrawRandom draws k cards from pool uniformly without replacement. pool is not modified.
func (s *Sampler) DrawRandom(pool []engine.Card, k int) ([]engine.Card, error) {
	if k < 0 || k > len(pool) {
		return nil, fmt.Errorf("%w: want %d from %d", ErrInsufficientCards, k, len(pool))
	}
	cp := append([]engine.Card(nil), pool...)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:k], nil
}

func pick(pool []engine.Card, idx []int) []engine.Card {
	out := make([]engine.Card, len(idx))
	for i, p := range idx {
		out[i] = pool[p]
	}
	return out
}
