package store

import (
	"context"
	"fmt"
	"strings"
)

const (
	ModeMemory   = "memory"
	ModePostgres = "postgres"
	ModeSQLite   = "sqlite"
)

// NormalizeMode maps aliases onto the Mode constants; unknown values pass through lowercased.
func NormalizeMode(raw string) string {
	switch m := strings.ToLower(strings.TrimSpace(raw)); m {
	case "", ModeMemory, "mem":
		return ModeMemory
	case ModePostgres, "postgresql", "pg", "db":
		return ModePostgres
	case ModeSQLite, "local":
		return ModeSQLite
	default:
		return m
	}
}

// New opens the backend for mode. Postgres is migrated first when migrate is set;
// SQLite always ensures its schema.
func New(ctx context.Context, mode, dsn, sqlitePath string, migrate bool) (Store, string, error) {
	mode = NormalizeMode(mode)
	switch mode {
	case ModeMemory:
		return NewMemory(), mode, nil
	case ModeSQLite:
		s, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, mode, err
		}
		return s, mode, nil
	case ModePostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, mode, fmt.Errorf("postgres store needs DATABASE_URL")
		}
		db, err := Open(dsn)
		if err != nil {
			return nil, mode, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, mode, err
		}
		if migrate {
			if err := Migrate(ctx, db); err != nil {
				db.Close()
				return nil, mode, fmt.Errorf("migrate: %w", err)
			}
		}
		return db, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid STORE_MODE %q (supported: %s, %s, %s)", mode, ModeMemory, ModePostgres, ModeSQLite)
	}
}
