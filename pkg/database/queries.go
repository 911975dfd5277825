package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sqlkit-dev/sqlkit/internal/util"
)

// QueryHelper runs a query and hands each row to a scan callback, so
// extractor code doesn't repeat the rows.Next/rows.Err boilerplate.
type QueryHelper struct {
	pool *Pool
}

func NewQueryHelper(pool *Pool) *QueryHelper {
	return &QueryHelper{pool: pool}
}

func (qh *QueryHelper) FetchAll(
	ctx context.Context,
	query string,
	scanFunc func(pgx.Rows) error,
	args ...any,
) error {
	rows, err := qh.pool.Query(ctx, query, args...)
	if err != nil {
		return util.WrapError("execute query", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scanFunc(rows); err != nil {
			return util.WrapError("scan row", err)
		}
	}

	if err := rows.Err(); err != nil {
		return util.WrapError("iterate rows", err)
	}

	return nil
}
