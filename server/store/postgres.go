package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close() error                   { db.Pool.Close(); return nil }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

const runColumns = `id, created_at, cards, iterations, trees, seed, win_rate, wins, visits, nodes, elapsed_ms`

func (db *DB) SaveRun(ctx context.Context, r *Run) error {
	return db.QueryRow(ctx, `
		INSERT INTO estimate_runs(cards, iterations, trees, seed, win_rate, wins, visits, nodes, elapsed_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`, r.Cards, r.Iterations, r.Trees, r.Seed, r.WinRate, r.Wins, r.Visits, r.Nodes, r.ElapsedMS).Scan(&r.ID, &r.CreatedAt)
}

func (db *DB) GetRun(ctx context.Context, id int64) (Run, error) {
	r, err := scanRun(db.QueryRow(ctx, `SELECT `+runColumns+` FROM estimate_runs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, err
}

func (db *DB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := db.Query(ctx, `
		SELECT `+runColumns+`
		  FROM estimate_runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Cards, &r.Iterations, &r.Trees, &r.Seed,
		&r.WinRate, &r.Wins, &r.Visits, &r.Nodes, &r.ElapsedMS)
	return r, err
}
