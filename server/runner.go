package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"holdem-mcts/server/engine"
	"holdem-mcts/server/mcts"
	"holdem-mcts/server/store"
)

var errBadRequest = errors.New("bad request")

type estimateRequest struct {
	Cards      []string `json:"cards"`
	Iterations *int     `json:"iterations,omitempty"` // nil: configured default
	Seed       *int64   `json:"seed,omitempty"`
	Trees      int      `json:"trees,omitempty"`
}

type estimateResponse struct {
	Run    store.Run   `json:"run"`
	Result mcts.Result `json:"result"`
}

// service is what the HTTP, websocket and CLI surfaces share.
type service struct {
	cfg   Config
	store store.Store
	log   zerolog.Logger
}

func (s *service) estimator(seed int64, progress mcts.ProgressFunc) *mcts.Estimator {
	opts := []mcts.Option{
		mcts.WithSeed(seed),
		mcts.WithComboCap(s.cfg.ComboCap),
		mcts.WithLogger(s.log),
	}
	if progress != nil && s.cfg.ProgressEvery > 0 {
		opts = append(opts, mcts.WithProgress(s.cfg.ProgressEvery, progress))
	}
	return mcts.New(opts...)
}

func (s *service) resolve(req estimateRequest) ([]engine.Card, int, int64, int, error) {
	cards, err := engine.ParseCards(req.Cards)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	iterations := s.cfg.Iterations
	if req.Iterations != nil {
		iterations = *req.Iterations
	}
	if iterations > s.cfg.MaxIterations {
		return nil, 0, 0, 0, fmt.Errorf("%w: iterations %d above limit %d", errBadRequest, iterations, s.cfg.MaxIterations)
	}
	seed := s.cfg.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	trees := req.Trees
	if trees <= 0 {
		trees = s.cfg.Trees
	}
	if trees > 64 {
		return nil, 0, 0, 0, fmt.Errorf("%w: trees %d above 64", errBadRequest, trees)
	}
	return cards, iterations, seed, trees, nil
}

// runEstimate searches, persists and returns the run.
func (s *service) runEstimate(ctx context.Context, req estimateRequest, progress mcts.ProgressFunc) (estimateResponse, error) {
	cards, iterations, seed, trees, err := s.resolve(req)
	if err != nil {
		return estimateResponse{}, err
	}
	res, err := s.estimator(seed, progress).RunParallel(ctx, cards, iterations, trees)
	if err != nil {
		return estimateResponse{}, err
	}
	run := store.Run{
		Cards:      engine.Cards(cards).Strings(),
		Iterations: res.Iterations,
		Trees:      res.Trees,
		Seed:       seed,
		WinRate:    res.WinRate,
		Wins:       res.Wins,
		Visits:     res.Visits,
		Nodes:      res.Nodes,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
	if err := s.store.SaveRun(ctx, &run); err != nil {
		return estimateResponse{}, fmt.Errorf("save run: %w", err)
	}
	s.log.Info().
		Int64("run", run.ID).
		Strs("cards", run.Cards).
		Int("iterations", run.Iterations).
		Int("trees", run.Trees).
		Float64("win_rate", run.WinRate).
		Msg("estimate")
	return estimateResponse{Run: run, Result: res}, nil
}

func isClientError(err error) bool {
	return errors.Is(err, engine.ErrInvalidCard) || errors.Is(err, mcts.ErrDegenerateInput) || errors.Is(err, errBadRequest)
}
