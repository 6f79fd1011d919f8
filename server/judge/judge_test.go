package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"holdem-mcts/server/engine"
	"holdem-mcts/server/mcts"
)

func TestReferenceHands(t *testing.T) {
	hands := ReferenceHands()
	require.Len(t, hands, 9)
	require.Equal(t, "Pocket Aces", hands[0].Name)
	require.Equal(t, []string{"AH", "AC"}, hands[0].Labels)
	require.Equal(t, "7-2 offsuit", hands[6].Name)
	require.InDelta(t, 0.12, hands[6].Expected, 1e-12)
	for _, h := range hands {
		require.Len(t, h.Cards, 2, h.Name)
		require.True(t, engine.Cards(h.Cards).Distinct(), h.Name)
	}
}

func TestCompare(t *testing.T) {
	rows := []Row{
		{Hand: Hand{Name: "a", Expected: 0.8}, Result: mcts.Result{WinRate: 0.7}},
		{Hand: Hand{Name: "b", Expected: 0.1}, Result: mcts.Result{WinRate: 0.4}},
		{Hand: Hand{Name: "c", Expected: 0.5}, Result: mcts.Result{WinRate: 0.7}},
	}
	rep := Compare(rows)
	require.InDelta(t, (0.1+0.3+0.2)/3, rep.AverageDifference, 1e-9)
	require.Equal(t, []int{0, 2, 1}, rep.Ranking)

	empty := Compare(nil)
	require.Zero(t, empty.AverageDifference)
	require.Empty(t, empty.Ranking)
}

type fakeEstimator struct {
	rates map[string]float64
	fail  string
}

func (f fakeEstimator) RunParallel(_ context.Context, player []engine.Card, iterations, trees int) (mcts.Result, error) {
	key := engine.Cards(player).String()
	if key == f.fail {
		return mcts.Result{}, mcts.ErrDegenerateInput
	}
	wins := int(f.rates[key] * float64(iterations))
	return mcts.Result{WinRate: f.rates[key], Wins: wins, Visits: iterations, Iterations: iterations, Trees: trees}, nil
}

func TestEvaluate(t *testing.T) {
	hands := ReferenceHands()[:3]
	est := fakeEstimator{rates: map[string]float64{"AH AC": 0.7, "KH KC": 0.65, "AH KH": 0.6}}

	var streamed []string
	rep, err := Evaluate(context.Background(), est, hands, 100, 2, func(r Row) { streamed = append(streamed, r.Hand.Name) })
	require.NoError(t, err)
	require.Equal(t, []string{"Pocket Aces", "Pocket Kings", "AK suited"}, streamed)
	require.Len(t, rep.Rows, 3)
	require.Equal(t, 2, rep.Rows[0].Result.Trees)
	require.Less(t, rep.Rows[0].Low, 0.7)
	require.Greater(t, rep.Rows[0].High, 0.7)

	est.fail = "KH KC"
	rep, err = Evaluate(context.Background(), est, hands, 100, 1, nil)
	require.True(t, errors.Is(err, mcts.ErrDegenerateInput))
	require.Len(t, rep.Rows, 1)
}

func TestWilsonCI95(t *testing.T) {
	lo, hi := WilsonCI95(0, 0)
	require.Equal(t, 0.0, lo)
	require.Equal(t, 1.0, hi)

	lo, hi = WilsonCI95(50, 100)
	require.InDelta(t, 0.4038, lo, 1e-3)
	require.InDelta(t, 0.5962, hi, 1e-3)

	lo, hi = WilsonCI95(100, 100)
	require.Less(t, lo, 1.0)
	require.InDelta(t, 1.0, hi, 1e-9)
}

func TestConvergence(t *testing.T) {
	run := func(_ context.Context, n int, seed int64) (float64, error) {
		return 0.5 + float64(seed)/float64(n), nil
	}
	pts, err := Convergence(context.Background(), run, []int{10, 100}, []int64{-1, 1})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	require.InDelta(t, 0.5, pts[0].Mean, 1e-12)
	require.Greater(t, pts[0].StdDev, pts[1].StdDev)
	require.Len(t, pts[1].Samples, 2)
	require.InDelta(t, 0.49, pts[1].Samples[0], 1e-12)

	single, err := Convergence(context.Background(), run, []int{10}, []int64{2})
	require.NoError(t, err)
	require.InDelta(t, 0.7, single[0].Mean, 1e-12)
	require.Zero(t, single[0].StdDev)

	boom := errors.New("boom")
	_, err = Convergence(context.Background(), func(context.Context, int, int64) (float64, error) { return 0, boom }, []int{1}, []int64{1})
	require.ErrorIs(t, err, boom)
}

// Real search through the judge, small budget.
func TestEvaluate_WithSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("runs searches")
	}
	hands := ReferenceHands()
	rep, err := Evaluate(context.Background(), mcts.New(mcts.WithSeed(8)), []Hand{hands[0], hands[6]}, 1500, 1, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, rep.Ranking)
}

func TestBootstrapCI95(t *testing.T) {
	rng := mcts.NewRand(4)
	lo, hi := BootstrapCI95(nil, 100, rng)
	require.Zero(t, lo)
	require.Zero(t, hi)

	lo, hi = BootstrapCI95([]float64{0.5, 0.5, 0.5}, 200, rng)
	require.Equal(t, 0.5, lo)
	require.Equal(t, 0.5, hi)

	vals := []float64{0.60, 0.64, 0.66, 0.68, 0.72}
	lo, hi = BootstrapCI95(vals, 500, rng)
	require.LessOrEqual(t, lo, 0.66)
	require.GreaterOrEqual(t, hi, 0.66)
	require.GreaterOrEqual(t, lo, 0.60)
	require.LessOrEqual(t, hi, 0.72)
}

// Spread across seeds shrinks as the budget grows.
func TestConvergence_SpreadShrinksWithBudget(t *testing.T) {
	if testing.Short() {
		t.Skip("runs searches")
	}
	aces := ReferenceHands()[0].Cards
	run := func(_ context.Context, n int, seed int64) (float64, error) {
		return mcts.Estimate(aces, n, seed)
	}
	seeds := []int64{11, 12, 13, 14, 15, 16, 17, 18}
	pts, err := Convergence(context.Background(), run, []int{200, 5000}, seeds)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	require.Len(t, pts[1].Samples, len(seeds))
	require.Greater(t, pts[0].StdDev, 0.0)
	require.Less(t, pts[1].StdDev, pts[0].StdDev)
	require.InDelta(t, 0.68, pts[1].Mean, 0.08)
}
