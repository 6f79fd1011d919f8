package mcts

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"holdem-mcts/server/engine"
)

// RunParallel splits iterations across independent trees, each with its own
// generator seeded from the estimator's seed, and averages their win rates.
// trees <= 1 is the same as Run.
func (e *Estimator) RunParallel(ctx context.Context, player []engine.Card, iterations, trees int) (Result, error) {
	if trees <= 1 {
		return e.Run(ctx, player, iterations)
	}
	if err := validate(player, iterations); err != nil {
		return Result{}, err
	}
	if trees > iterations && iterations > 0 {
		trees = iterations
	}

	start := time.Now()
	seeds := newSeedStream(uint64(e.seed))
	results := make([]Result, trees)
	g, gctx := errgroup.WithContext(ctx)
	per, extra := iterations/trees, iterations%trees
	for i := 0; i < trees; i++ {
		n := per
		if i < extra {
			n++
		}
		i := i
		worker := &Estimator{
			seed:  int64(seeds.next()),
			limit: e.limit,
			log:   e.log.With().Int("tree", i).Logger(),
		}
		g.Go(func() error {
			res, err := worker.Run(gctx, player, n)
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	agg := Result{Trees: trees}
	var rateSum float64
	var counted int
	for _, r := range results {
		agg.Wins += r.Wins
		agg.Visits += r.Visits
		agg.Iterations += r.Iterations
		agg.Nodes += r.Nodes
		agg.RootChildren += r.RootChildren
		if r.Visits > 0 {
			rateSum += r.WinRate
			counted++
		}
	}
	if counted > 0 {
		agg.WinRate = rateSum / float64(counted)
	}
	agg.Elapsed = time.Since(start)
	if e.progress != nil && agg.Iterations > 0 {
		e.progress(Progress{Iteration: agg.Iterations, Total: iterations, WinRate: agg.WinRate, Nodes: agg.Nodes})
	}
	return agg, err
}
