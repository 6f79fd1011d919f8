package mcts

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/seehuhn/mt19937"

	"holdem-mcts/server/engine"
)

// NewRand returns a Mersenne Twister backed generator. Equal seeds produce equal streams.
func NewRand(seed int64) *rand.Rand {
	src := mt19937.New()
	src.Seed(seed)
	return rand.New(src)
}

// Progress is reported every N iterations while a tree is searched.
type Progress struct {
	Iteration int     `json:"iteration"`
	Total     int     `json:"total"`
	WinRate   float64 `json:"win_rate"`
	Nodes     int     `json:"nodes"`
}

type ProgressFunc func(Progress)

type Result struct {
	WinRate      float64       `json:"win_rate"`
	Wins         int           `json:"wins"`
	Visits       int           `json:"visits"`
	Iterations   int           `json:"iterations"`
	Nodes        int           `json:"nodes"`
	RootChildren int           `json:"root_children"`
	Trees        int           `json:"trees"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

type Estimator struct {
	seed     int64
	limit    int
	log      zerolog.Logger
	every    int
	progress ProgressFunc
	rng      *rand.Rand
}

type Option func(*Estimator)

func WithSeed(seed int64) Option { return func(e *Estimator) { e.seed = seed } }

// WithComboCap sets the per-expansion candidate bound; <= 0 keeps DefaultComboCap.
func WithComboCap(n int) Option { return func(e *Estimator) { e.limit = n } }

func WithLogger(l zerolog.Logger) Option { return func(e *Estimator) { e.log = l } }

// WithProgress calls fn after every `every` completed iterations and once at the end.
func WithProgress(every int, fn ProgressFunc) Option {
	return func(e *Estimator) { e.every, e.progress = every, fn }
}

// WithRand makes Run draw from r instead of a fresh generator per call.
// RunParallel ignores it; trees never share a generator.
func WithRand(r *rand.Rand) Option { return func(e *Estimator) { e.rng = r } }

func New(opts ...Option) *Estimator {
	e := &Estimator{limit: DefaultComboCap, log: zerolog.Nop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Estimator) Seed() int64 { return e.seed }

func validate(player []engine.Card, iterations int) error {
	if len(player) != 2 {
		return fmt.Errorf("%w: need exactly 2 hole cards, got %d", ErrDegenerateInput, len(player))
	}
	for _, c := range player {
		if !c.Valid() {
			return fmt.Errorf("%w: %v", ErrDegenerateInput, c)
		}
	}
	if player[0] == player[1] {
		return fmt.Errorf("%w: duplicate card %v", ErrDegenerateInput, player[0])
	}
	if iterations < 0 {
		return fmt.Errorf("%w: iterations %d < 0", ErrDegenerateInput, iterations)
	}
	return nil
}

// Run searches one tree for the given number of iterations. Zero iterations is
// a win rate of 0, not an error. On cancellation the partial result is
// returned with ctx's error.
func (e *Estimator) Run(ctx context.Context, player []engine.Card, iterations int) (Result, error) {
	if err := validate(player, iterations); err != nil {
		return Result{}, err
	}
	rng := e.rng
	if rng == nil {
		rng = NewRand(e.seed)
	}
	start := time.Now()
	s := newSearch(player, rng, e.limit, e.log)

	done := 0
	var runErr error
	for done < iterations {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := s.iterate(); err != nil {
			runErr = fmt.Errorf("iteration %d: %w", done+1, err)
			break
		}
		done++
		if e.progress != nil && e.every > 0 && done%e.every == 0 && done < iterations {
			e.progress(s.progress(done, iterations))
		}
	}
	if e.progress != nil && done > 0 {
		e.progress(s.progress(done, iterations))
	}

	res := s.result(done)
	res.Elapsed = time.Since(start)
	e.log.Debug().
		Str("cards", engine.Cards(player).String()).
		Int("iterations", done).
		Int("nodes", res.Nodes).
		Float64("win_rate", res.WinRate).
		Dur("elapsed", res.Elapsed).
		Msg("search finished")
	return res, runErr
}

func (s *search) progress(done, total int) Progress {
	root := s.tree.Node(s.tree.Root())
	return Progress{Iteration: done, Total: total, WinRate: root.WinRate(), Nodes: s.tree.Len()}
}

func (s *search) result(done int) Result {
	root := s.tree.Node(s.tree.Root())
	return Result{
		WinRate:      root.WinRate(),
		Wins:         root.Wins,
		Visits:       root.Visits,
		Iterations:   done,
		Nodes:        s.tree.Len(),
		RootChildren: len(root.Children),
		Trees:        1,
	}
}

// Estimate is the one-call form: win probability of player's two cards after
// iterations MCTS iterations, reproducible for a given seed.
func Estimate(player []engine.Card, iterations int, seed int64) (float64, error) {
	res, err := New(WithSeed(seed)).Run(context.Background(), player, iterations)
	if err != nil {
		return 0, err
	}
	return res.WinRate, nil
}
