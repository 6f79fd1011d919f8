package judge

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"holdem-mcts/server/mcts"
)

const bootstrapRounds = 1000

// RunFunc estimates one hand with the given iteration budget and seed.
type RunFunc func(ctx context.Context, iterations int, seed int64) (float64, error)

type ConvergencePoint struct {
	Iterations int       `json:"iterations"`
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"stddev"`
	CILow      float64   `json:"ci_low"`
	CIHigh     float64   `json:"ci_high"`
	Samples    []float64 `json:"samples"`
}

// Convergence runs every budget in ns once per seed and summarises the spread.
// StdDev is 0 with fewer than two seeds. The CI is a bootstrap of the per-seed means.
func Convergence(ctx context.Context, run RunFunc, ns []int, seeds []int64) ([]ConvergencePoint, error) {
	rng := mcts.NewRand(1)
	out := make([]ConvergencePoint, 0, len(ns))
	for _, n := range ns {
		pt := ConvergencePoint{Iterations: n, Samples: make([]float64, 0, len(seeds))}
		for _, seed := range seeds {
			p, err := run(ctx, n, seed)
			if err != nil {
				return out, fmt.Errorf("convergence n=%d seed=%d: %w", n, seed, err)
			}
			pt.Samples = append(pt.Samples, p)
		}
		switch len(pt.Samples) {
		case 0:
		case 1:
			pt.Mean = pt.Samples[0]
		default:
			pt.Mean, pt.StdDev = stat.MeanStdDev(pt.Samples, nil)
		}
		pt.CILow, pt.CIHigh = BootstrapCI95(pt.Samples, bootstrapRounds, rng)
		out = append(out, pt)
	}
	return out, nil
}
