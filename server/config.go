package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"holdem-mcts/server/mcts"
	"holdem-mcts/server/store"
)

type Config struct {
	Port          string
	StoreMode     string
	DatabaseURL   string
	SQLitePath    string
	AutoMigrate   bool
	Iterations    int
	MaxIterations int
	Trees         int
	Seed          int64
	ComboCap      int
	ProgressEvery int
	LogLevel      string
	Debug         bool
	NoColor       bool
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// loadConfig reads the environment; .env has already been applied by main.
func loadConfig() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		StoreMode:     store.NormalizeMode(os.Getenv("STORE_MODE")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:    getenv("SQLITE_PATH", "data/runs.db"),
		AutoMigrate:   asBool(os.Getenv("AUTO_MIGRATE")),
		Iterations:    atoiDef(os.Getenv("ITERATIONS"), 500),
		MaxIterations: atoiDef(os.Getenv("MAX_ITERATIONS"), 200000),
		Trees:         atoiDef(os.Getenv("TREES"), 1),
		ComboCap:      atoiDef(os.Getenv("COMBO_CAP"), mcts.DefaultComboCap),
		ProgressEvery: atoiDef(os.Getenv("PROGRESS_EVERY"), 200),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Debug:         asBool(os.Getenv("DEBUG")),
		NoColor:       os.Getenv("NO_COLOR") != "",
	}
	if s := strings.TrimSpace(os.Getenv("SEED")); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("SEED: %w", err)
		}
		cfg.Seed = v
	} else {
		cfg.Seed = int64(secureBaseSeed())
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("ITERATIONS must be >= 0, got %d", c.Iterations)
	}
	if c.MaxIterations <= 0 || c.Iterations > c.MaxIterations {
		return fmt.Errorf("MAX_ITERATIONS must be positive and >= ITERATIONS (%d, %d)", c.MaxIterations, c.Iterations)
	}
	if c.Trees < 1 || c.Trees > 64 {
		return fmt.Errorf("TREES must be in [1, 64], got %d", c.Trees)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("PROGRESS_EVERY must be >= 0, got %d", c.ProgressEvery)
	}
	switch c.StoreMode {
	case store.ModeMemory, store.ModeSQLite:
	case store.ModePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_MODE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("invalid STORE_MODE %q", c.StoreMode)
	}
	return nil
}

func secureBaseSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[:]) ^ uint64(time.Now().UnixNano()) ^ uint64(os.Getpid())
	}
	return uint64(time.Now().UnixNano()) ^ 0xA5A5A5A5A5A5A5A5
}
