package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("run not found")

// Run is one persisted estimation.
type Run struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Cards      []string  `json:"cards"`
	Iterations int       `json:"iterations"`
	Trees      int       `json:"trees"`
	Seed       int64     `json:"seed"`
	WinRate    float64   `json:"win_rate"`
	Wins       int       `json:"wins"`
	Visits     int       `json:"visits"`
	Nodes      int       `json:"nodes"`
	ElapsedMS  int64     `json:"elapsed_ms"`
}

type Store interface {
	// SaveRun fills in r.ID and r.CreatedAt.
	SaveRun(ctx context.Context, r *Run) error
	GetRun(ctx context.Context, id int64) (Run, error)
	// RecentRuns is newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500
)

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	}
	return limit
}
