package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"holdem-mcts/server/engine"
	"holdem-mcts/server/judge"
	"holdem-mcts/server/mcts"
)

// runBench estimates every reference hand and prints the comparison.
func runBench(ctx context.Context, svc *service, iterations int) (judge.Report, error) {
	pterm.DefaultSection.Println("MCTS Poker Win Probability Estimator")
	est := svc.estimator(svc.cfg.Seed, nil)
	rep, err := judge.Evaluate(ctx, est, judge.ReferenceHands(), iterations, svc.cfg.Trees, func(r judge.Row) {
		pterm.Info.Printfln("%-15s %-6s estimated %.3f  expected %.3f  diff %.3f  (95%% CI %.3f-%.3f)",
			r.Hand.Name, strings.Join(r.Hand.Labels, " "), r.Estimated(), r.Hand.Expected, r.Difference(), r.Low, r.High)
	})
	if err != nil {
		return rep, err
	}
	return rep, renderReport(rep)
}

func renderReport(rep judge.Report) error {
	data := pterm.TableData{{"Hand", "Cards", "Estimated", "Expected", "Difference", "Nodes", "Time"}}
	for _, r := range rep.Rows {
		data = append(data, []string{
			r.Hand.Name,
			strings.Join(r.Hand.Labels, " "),
			fmt.Sprintf("%.3f (%.1f%%)", r.Estimated(), 100*r.Estimated()),
			fmt.Sprintf("%.3f (%.1f%%)", r.Hand.Expected, 100*r.Hand.Expected),
			fmt.Sprintf("%.3f", r.Difference()),
			fmt.Sprintf("%d", r.Result.Nodes),
			r.Result.Elapsed.Round(1e6).String(),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Summary")
	pterm.Info.Printfln("Average difference from expected: %.3f", rep.AverageDifference)

	pterm.DefaultSection.Println("Hand rankings (by estimated win rate)")
	for i, idx := range rep.Ranking {
		r := rep.Rows[idx]
		pterm.Printfln("%2d. %-15s - %.3f", i+1, r.Hand.Name, r.Estimated())
	}
	return nil
}

// runConvergence prints mean and spread of the estimate for growing budgets.
func runConvergence(ctx context.Context, svc *service, cards []engine.Card, ns []int, seeds int) error {
	pterm.DefaultSection.Printfln("Convergence for %s", engine.Cards(cards))
	base := svc.cfg.Seed
	seedList := make([]int64, seeds)
	for i := range seedList {
		seedList[i] = base + int64(i)
	}
	run := func(ctx context.Context, n int, seed int64) (float64, error) {
		res, err := svc.estimator(seed, nil).RunParallel(ctx, cards, n, svc.cfg.Trees)
		return res.WinRate, err
	}
	pts, err := judge.Convergence(ctx, run, ns, seedList)
	if err != nil {
		return err
	}
	data := pterm.TableData{{"Iterations", "Mean", "StdDev", "95% CI", "Seeds"}}
	for _, p := range pts {
		data = append(data, []string{
			fmt.Sprintf("%d", p.Iterations),
			fmt.Sprintf("%.4f", p.Mean),
			fmt.Sprintf("%.4f", p.StdDev),
			fmt.Sprintf("%.4f-%.4f", p.CILow, p.CIHigh),
			fmt.Sprintf("%d", len(p.Samples)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// runEstimateCLI is the one-off --estimate path; it stores the run like the API does.
func runEstimateCLI(ctx context.Context, svc *service, labels string, iterations int) error {
	req := estimateRequest{Cards: splitLabels(labels), Iterations: &iterations}
	spinner, _ := pterm.DefaultSpinner.Start("Searching " + strings.Join(req.Cards, " ") + " ...")
	progress := func(p mcts.Progress) {
		if spinner != nil {
			spinner.UpdateText(fmt.Sprintf("%d/%d iterations, win rate %.3f", p.Iteration, p.Total, p.WinRate))
		}
	}
	resp, err := svc.runEstimate(ctx, req, progress)
	if err != nil {
		if spinner != nil {
			spinner.Fail(err.Error())
		}
		return err
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("%s: %.3f (%.1f%%) after %d iterations, %d nodes, %s",
			strings.Join(resp.Run.Cards, " "), resp.Run.WinRate, 100*resp.Run.WinRate,
			resp.Run.Iterations, resp.Run.Nodes, resp.Result.Elapsed.Round(1e6)))
	}
	return nil
}

func splitLabels(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseBudgets(s string) ([]int, error) {
	var ns []int
	for _, f := range splitLabels(s) {
		n := atoiDef(f, -1)
		if n <= 0 {
			return nil, fmt.Errorf("bad iteration budget %q", f)
		}
		ns = append(ns, n)
	}
	if len(ns) == 0 {
		return nil, fmt.Errorf("no iteration budgets")
	}
	return ns, nil
}
