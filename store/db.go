// Package store is the relational source of truth for users, posts, likes, follows and comments.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported drivers.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config selects the driver and pool settings.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	// StatementCache enables pgx prepared statement caching. Disable behind poolers
	// running in transaction mode.
	StatementCache bool
}

// Open connects to the configured database and wraps it in a bun.DB.
func Open(cfg Config) (*bun.DB, error) {
	var (
		sqldb *sql.DB
		db    *bun.DB
	)

	switch cfg.Driver {
	case DriverPgx, "":
		connCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		if cfg.StatementCache {
			connCfg.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
			connCfg.StatementCacheCapacity = 256
		} else {
			connCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		}
		sqldb = stdlib.OpenDB(*connCfg)
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverPostgres:
		conn, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqldb = conn
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite:
		conn, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqldb = conn
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return db, nil
}

// Ping checks connectivity.
func Ping(ctx context.Context, db bun.IDB) error {
	var one int
	return db.NewSelect().ColumnExpr("1").Scan(ctx, &one)
}
