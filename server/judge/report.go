package judge

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"holdem-mcts/server/engine"
	"holdem-mcts/server/mcts"
)

// Estimator is the part of *mcts.Estimator the judge drives.
type Estimator interface {
	RunParallel(ctx context.Context, player []engine.Card, iterations, trees int) (mcts.Result, error)
}

type Row struct {
	Hand   Hand        `json:"hand"`
	Result mcts.Result `json:"result"`
	Low    float64     `json:"ci_low"`
	High   float64     `json:"ci_high"`
}

func (r Row) Estimated() float64  { return r.Result.WinRate }
func (r Row) Difference() float64 { return math.Abs(r.Result.WinRate - r.Hand.Expected) }

type Report struct {
	Rows              []Row   `json:"rows"`
	AverageDifference float64 `json:"average_difference"`
	// Ranking holds indices into Rows, best estimate first.
	Ranking []int `json:"ranking"`
}

// Compare summarises rows: mean absolute difference and a ranking by estimate.
// Equal estimates keep input order.
func Compare(rows []Row) Report {
	rep := Report{Rows: rows, Ranking: make([]int, len(rows))}
	if len(rows) == 0 {
		return rep
	}
	diffs := make([]float64, len(rows))
	for i, r := range rows {
		diffs[i] = r.Difference()
		rep.Ranking[i] = i
	}
	rep.AverageDifference = stat.Mean(diffs, nil)
	sort.SliceStable(rep.Ranking, func(a, b int) bool {
		return rows[rep.Ranking[a]].Estimated() > rows[rep.Ranking[b]].Estimated()
	})
	return rep
}

// Evaluate estimates every hand in order and reports after each one through
// onRow if it is non-nil.
func Evaluate(ctx context.Context, est Estimator, hands []Hand, iterations, trees int, onRow func(Row)) (Report, error) {
	rows := make([]Row, 0, len(hands))
	for _, h := range hands {
		res, err := est.RunParallel(ctx, h.Cards, iterations, trees)
		if err != nil {
			return Compare(rows), fmt.Errorf("%s: %w", h.Name, err)
		}
		lo, hi := WilsonCI95(res.Wins, res.Visits)
		row := Row{Hand: h, Result: res, Low: lo, High: hi}
		rows = append(rows, row)
		if onRow != nil {
			onRow(row)
		}
	}
	return Compare(rows), nil
}
