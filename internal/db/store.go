package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is an opened and migrated database. Exactly one handle is non-nil.
type Store struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

// Open connects to the configured driver ("postgres" or "sqlite") and applies the schema.
func Open(ctx context.Context, driver, dsn, sqlitePath string) (*Store, error) {
	switch driver {
	case "postgres":
		pool, err := NewPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{Pool: pool}, nil
	case "sqlite":
		conn, err := OpenSQLite(ctx, sqlitePath)
		if err != nil {
			return nil, err
		}
		if err := MigrateSQLite(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		return &Store{SQL: conn}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.SQL != nil {
		s.SQL.Close()
	}
}
