package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLite, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection: ":memory:" is per connection, and writers serialise anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{`PRAGMA busy_timeout = 5000;`, `PRAGMA journal_mode = WAL;`} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS estimate_runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at_ms INTEGER NOT NULL,
    cards_json    TEXT NOT NULL,
    iterations    INTEGER NOT NULL,
    trees         INTEGER NOT NULL DEFAULT 1,
    seed          INTEGER NOT NULL,
    win_rate      REAL NOT NULL,
    wins          INTEGER NOT NULL,
    visits        INTEGER NOT NULL,
    nodes         INTEGER NOT NULL,
    elapsed_ms    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS estimate_runs_created_idx ON estimate_runs (created_at_ms DESC);
`)
	return err
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) SaveRun(ctx context.Context, r *Run) error {
	cards, err := json.Marshal(r.Cards)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
INSERT INTO estimate_runs (created_at_ms, cards_json, iterations, trees, seed, win_rate, wins, visits, nodes, elapsed_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, now.UnixMilli(), string(cards), r.Iterations, r.Trees, r.Seed, r.WinRate, r.Wins, r.Visits, r.Nodes, r.ElapsedMS)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	r.CreatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	return nil
}

const sqliteColumns = `id, created_at_ms, cards_json, iterations, trees, seed, win_rate, wins, visits, nodes, elapsed_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row rowScanner) (Run, error) {
	var (
		r         Run
		createdMS int64
		cards     string
	)
	if err := row.Scan(&r.ID, &createdMS, &cards, &r.Iterations, &r.Trees, &r.Seed,
		&r.WinRate, &r.Wins, &r.Visits, &r.Nodes, &r.ElapsedMS); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(cards), &r.Cards); err != nil {
		return Run{}, fmt.Errorf("run %d cards: %w", r.ID, err)
	}
	r.CreatedAt = time.UnixMilli(createdMS).UTC()
	return r, nil
}

func (s *SQLite) GetRun(ctx context.Context, id int64) (Run, error) {
	r, err := scanSQLiteRun(s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM estimate_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, err
}

func (s *SQLite) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+sqliteColumns+`
FROM estimate_runs
ORDER BY created_at_ms DESC, id DESC
LIMIT ?
`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		r, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
