package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"holdem-mcts/server/engine"
	"holdem-mcts/server/store"
)

func main() {
	_ = godotenv.Load()

	var (
		bench       = flag.Bool("bench", false, "estimate the reference hands and print a report")
		convergence = flag.String("convergence", "", "convergence study for these cards, e.g. AH,AC")
		budgets     = flag.String("budgets", "200,1000,5000", "iteration budgets for --convergence")
		seeds       = flag.Int("seeds", 5, "seeds per budget for --convergence")
		estimate    = flag.String("estimate", "", "one estimate for these cards, e.g. AH,AC")
		migrate     = flag.Bool("migrate", false, "apply the Postgres schema and exit")
		iterations  = flag.Int("iterations", 0, "iterations per estimate (default ITERATIONS)")
		trees       = flag.Int("trees", 0, "independent trees per estimate (default TREES)")
		seed        = flag.Int64("seed", 0, "base seed (default SEED or random)")
	)
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "iterations":
			cfg.Iterations = *iterations
		case "trees":
			cfg.Trees = *trees
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	if cfg.NoColor {
		pterm.DisableColor()
	}
	log := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrate {
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		defer db.Close()
		if err := store.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		log.Info().Msg("migrated")
		return
	}

	st, mode, err := store.New(ctx, cfg.StoreMode, cfg.DatabaseURL, cfg.SQLitePath, cfg.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Str("mode", mode).Msg("open store")
	}
	defer st.Close()
	svc := &service{cfg: cfg, store: st, log: log}
	log.Debug().Str("store", mode).Int64("seed", cfg.Seed).Int("iterations", cfg.Iterations).Int("trees", cfg.Trees).Msg("config")

	switch {
	case *bench:
		if _, err := runBench(ctx, svc, cfg.Iterations); err != nil {
			log.Fatal().Err(err).Msg("bench")
		}
	case *convergence != "":
		cards, err := engine.ParseCards(splitLabels(*convergence))
		if err != nil {
			log.Fatal().Err(err).Msg("convergence cards")
		}
		ns, err := parseBudgets(*budgets)
		if err != nil {
			log.Fatal().Err(err).Msg("convergence budgets")
		}
		if err := runConvergence(ctx, svc, cards, ns, *seeds); err != nil {
			log.Fatal().Err(err).Msg("convergence")
		}
	case *estimate != "":
		if err := runEstimateCLI(ctx, svc, *estimate, cfg.Iterations); err != nil {
			log.Fatal().Err(err).Msg("estimate")
		}
	default:
		if err := serve(ctx, svc, log); err != nil {
			log.Fatal().Err(err).Msg("server")
		}
	}
}

func serve(ctx context.Context, svc *service, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + svc.cfg.Port,
		Handler:           Router(svc),
		ReadHeaderTimeout: 15 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on http://localhost:%s (Ctrl+C to stop)", svc.cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
