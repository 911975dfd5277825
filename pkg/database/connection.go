// Package database is the typed introspection-time pool: it scans rows
// into concrete Go values via database/sql-style pgx.Rows.Scan, for
// internal/extractor's catalog queries. internal/dbpool is the separate,
// runtime-facing pool that shapes rows into map[string]any for sqlkit's
// JSON-aggregating fragments.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlkit-dev/sqlkit/internal/util"
)

type Pool struct {
	pool *pgxpool.Pool
}

func NewPoolFromURL(ctx context.Context, url string) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, util.WrapError("parse pool config", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, util.WrapError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, util.WrapError("ping database", err)
	}

	return &Pool{pool: pool}, nil
}

func (p *Pool) Close() {
	p.pool.Close()
}

func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...) //nolint:wrapcheck
}

func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p *Pool) HasExtension(ctx context.Context, name string) (bool, error) {
	var exists bool

	query := "SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = $1)"

	err := p.pool.QueryRow(ctx, query, name).Scan(&exists)
	if err != nil {
		return false, util.WrapError(fmt.Sprintf("check extension %q", name), err)
	}

	return exists, nil
}

// HasTimescaleDB reports whether the connected database has the
// timescaledb extension installed, which the extractor uses to decide
// whether to filter TimescaleDB-managed dimension indexes out of a
// hypertable's index list.
func (p *Pool) HasTimescaleDB(ctx context.Context) (bool, error) {
	return p.HasExtension(ctx, "timescaledb")
}

// CurrentDatabase returns the connected database's name, used by the
// extractor to stamp schema.Database.DatabaseName.
func (p *Pool) CurrentDatabase(ctx context.Context) (string, error) {
	var dbName string

	err := p.pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		return "", util.WrapError("get current database", err)
	}

	return dbName, nil
}
