package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory keeps runs for the life of the process.
type Memory struct {
	mu     sync.RWMutex
	runs   []Run
	nextID int64
}

func NewMemory() *Memory { return &Memory{nextID: 1} }

func (m *Memory) SaveRun(_ context.Context, r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now().UTC()
	cp := *r
	cp.Cards = append([]string(nil), r.Cards...)
	m.runs = append(m.runs, cp)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id int64) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

func (m *Memory) RecentRuns(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	limit = clampLimit(limit)
	out := make([]Run, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
