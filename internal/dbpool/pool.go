// Package dbpool adapts a pgxpool connection pool (and, per transaction, a
// single pooled connection) to sqlkit.Queryable, so sqlkit.Fragment.Run can
// execute a compiled query without sqlkit itself depending on pgx.
package dbpool

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlkit-dev/sqlkit/internal/util"
	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

// Pool wraps a pgxpool.Pool, exposing it as a sqlkit.Queryable.
type Pool struct {
	pool *pgxpool.Pool
}

// NewFromURL parses url, opens a pool, and verifies connectivity with a
// ping before returning.
func NewFromURL(ctx context.Context, url string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, util.WrapError("parse pool config", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, util.WrapError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, util.WrapError("ping database", err)
	}

	return &Pool{pool: pool}, nil
}

// Close releases every connection in the pool.
func (p *Pool) Close() {
	p.pool.Close()
}

// Query executes a compiled query and collects every row into
// sqlkit.QueryResult via pgx.RowToMap, keyed by the driver's column names.
func (p *Pool) Query(ctx context.Context, q sqlkit.CompiledQuery) (sqlkit.QueryResult, error) {
	rows, err := p.pool.Query(ctx, q.Text, q.Values...)
	if err != nil {
		return sqlkit.QueryResult{}, util.WrapError("execute query", err)
	}
	defer rows.Close()

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return sqlkit.QueryResult{}, util.WrapError("collect rows", err)
	}

	out := make([]map[string]any, len(maps))
	for i, m := range maps {
		out[i] = m
	}

	return sqlkit.QueryResult{Rows: out}, nil
}

// Begin opens a transaction, tagged with a fresh correlation ID for
// telemetry.
func (p *Pool) Begin(ctx context.Context) (*Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, util.WrapError("begin transaction", err)
	}

	return &Tx{tx: tx, id: uuid.NewString()}, nil
}

// Tx wraps a single pgx transaction, exposing it as a sqlkit.Queryable that
// also satisfies sqlkit.TransactionTagged so telemetry listeners can
// correlate queries to the same transaction.
type Tx struct {
	tx pgx.Tx
	id string
}

// TransactionID satisfies sqlkit.TransactionTagged.
func (t *Tx) TransactionID() (string, bool) { return t.id, true }

// Query executes a compiled query within the transaction.
func (t *Tx) Query(ctx context.Context, q sqlkit.CompiledQuery) (sqlkit.QueryResult, error) {
	rows, err := t.tx.Query(ctx, q.Text, q.Values...)
	if err != nil {
		return sqlkit.QueryResult{}, util.WrapError("execute query", err)
	}
	defer rows.Close()

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return sqlkit.QueryResult{}, util.WrapError("collect rows", err)
	}

	out := make([]map[string]any, len(maps))
	for i, m := range maps {
		out[i] = m
	}

	return sqlkit.QueryResult{Rows: out}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return util.WrapError("commit transaction", t.tx.Commit(ctx))
}

// Rollback rolls back the transaction. Rolling back an already-committed
// or already-rolled-back transaction is a no-op, matching pgx.Tx.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return util.WrapError("rollback transaction", err)
	}

	return nil
}

// CurrentDatabase returns the name of the connected database.
func (p *Pool) CurrentDatabase(ctx context.Context) (string, error) {
	var name string

	err := p.pool.QueryRow(ctx, "SELECT current_database()").Scan(&name)
	if err != nil {
		return "", util.WrapError("get current database", err)
	}

	return name, nil
}
