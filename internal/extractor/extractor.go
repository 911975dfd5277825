// Package extractor walks a live PostgreSQL connection's pg_catalog and
// information_schema for exactly the facts internal/generator turns into
// Go source: base tables (with their columns and unique indexes) and
// enum custom types. See DESIGN.md for why the teacher's broader
// introspection surface (schemas, extensions, sequences, views,
// materialized views, functions, triggers, TimescaleDB hypertables and
// continuous aggregates) was dropped rather than carried through unused.
package extractor

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sqlkit-dev/sqlkit/internal/schema"
	"github.com/sqlkit-dev/sqlkit/internal/util"
	"github.com/sqlkit-dev/sqlkit/pkg/database"
)

var systemSchemas = []string{ //nolint:gochecknoglobals
	"_timescaledb_cache",
	"_timescaledb_catalog",
	"_timescaledb_config",
	"_timescaledb_debug",
	"_timescaledb_functions",
	"_timescaledb_internal",
	"hdb_catalog",
	"information_schema",
	"pg_catalog",
	"pg_toast",
	"timescaledb_experimental",
	"timescaledb_information",
	"timescaledb_internal",
}

type Options struct {
	ExcludeSchemas      []string
	IncludeSystemTables bool
}

type Extractor struct {
	pool           *database.Pool
	queryHelper    *database.QueryHelper
	hasTimescaleDB bool
	opts           Options
	queries        *queryBuilder
}

func New(ctx context.Context, pool *database.Pool, opts Options) (*Extractor, error) {
	if pool == nil {
		return nil, errors.New("pool cannot be nil")
	}

	hasTimescaleDB, err := pool.HasTimescaleDB(ctx)
	if err != nil {
		return nil, util.WrapError("check timescaledb", err)
	}

	if opts.ExcludeSchemas == nil {
		opts.ExcludeSchemas = systemSchemas
	} else {
		opts.ExcludeSchemas = append(opts.ExcludeSchemas, systemSchemas...)
	}

	return &Extractor{
		pool:           pool,
		queryHelper:    database.NewQueryHelper(pool),
		hasTimescaleDB: hasTimescaleDB,
		opts:           opts,
		queries: &queryBuilder{
			excludeSchemas:      opts.ExcludeSchemas,
			includeSystemTables: opts.IncludeSystemTables,
		},
	}, nil
}

// Extract walks the connection once and returns the tables and enum
// custom types the generator needs. The two extractors write to distinct
// fields of db and run concurrently against the pool (pgxpool.Pool is
// safe for concurrent use).
func (e *Extractor) Extract(ctx context.Context) (*schema.Database, error) {
	dbName, err := e.pool.CurrentDatabase(ctx)
	if err != nil {
		return nil, util.WrapError("get database name", err)
	}

	db := &schema.Database{
		Version:      schema.SchemaVersion,
		DatabaseName: dbName,
		ExtractedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		customTypes, err := e.extractCustomTypes(groupCtx)
		if err != nil {
			return util.WrapError("extract custom types", err)
		}

		db.CustomTypes = customTypes

		return nil
	})

	group.Go(func() error {
		tables, err := e.extractTables(groupCtx)
		if err != nil {
			return util.WrapError("extract tables", err)
		}

		db.Tables = tables

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	db.Sort()

	return db, nil
}
