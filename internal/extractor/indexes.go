package extractor

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sqlkit-dev/sqlkit/internal/schema"
	"github.com/sqlkit-dev/sqlkit/internal/util"
)

func (e *Extractor) extractIndexes(ctx context.Context, table *schema.Table) error {
	dimensionColumns := e.getHypertableDimensionColumns(ctx, table.Schema, table.Name)

	var indexes []schema.Index

	err := e.queryHelper.FetchAll(ctx, queryIndexes, func(rows pgx.Rows) error {
		var (
			idx        schema.Index
			definition string
		)

		if err := rows.Scan(&idx.Name, &idx.IsUnique, &definition); err != nil {
			return util.WrapError("scan index", err)
		}

		idx.Columns, _ = parseIndexDefinition(definition)

		if e.isTimescaleDBManagedIndex(idx.Name, table.Name, dimensionColumns) {
			return nil
		}

		indexes = append(indexes, idx)

		return nil
	}, table.Schema, table.Name)
	if err != nil {
		return util.WrapError("fetch indexes", err)
	}

	table.Indexes = indexes

	return nil
}

// parseIndexDefinition pulls the column list (and, for covering indexes,
// the INCLUDE list) out of a pg_get_indexdef() string. Only the column
// list feeds the generator; the INCLUDE list is parsed and discarded so
// it doesn't leak into the conflict-target column list.
func parseIndexDefinition(definition string) ([]string, []string) {
	var columns, includeColumns []string

	start := strings.Index(definition, "(")
	if start == -1 {
		return columns, includeColumns
	}

	depth := 0

	end := start
	for i := start; i < len(definition); i++ {
		switch definition[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}

		if depth == 0 && definition[i] == ')' {
			break
		}
	}

	if end <= start {
		return columns, includeColumns
	}

	columnList := definition[start+1 : end]

	if includeIdx := strings.Index(definition[end:], "INCLUDE"); includeIdx != -1 {
		includeStart := end + includeIdx
		if parenStart := strings.Index(definition[includeStart:], "("); parenStart != -1 {
			parenStart += includeStart
			if parenEnd := strings.Index(definition[parenStart:], ")"); parenEnd != -1 {
				parenEnd += parenStart
				includeList := definition[parenStart+1 : parenEnd]
				includeColumns = parseColumnList(includeList)
			}
		}
	}

	columns = parseColumnList(columnList)

	return columns, includeColumns
}

func parseColumnList(columnList string) []string {
	var (
		columns []string
		current strings.Builder
	)

	depth := 0
	inString := false

	for _, ch := range columnList {
		switch ch {
		case '\'':
			inString = !inString

			current.WriteRune(ch)
		case '(':
			if !inString {
				depth++
			}

			current.WriteRune(ch)
		case ')':
			if !inString {
				depth--
			}

			current.WriteRune(ch)
		case ',':
			if !inString && depth == 0 {
				if col := strings.TrimSpace(current.String()); col != "" {
					columns = append(columns, col)
				}

				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if col := strings.TrimSpace(current.String()); col != "" {
		columns = append(columns, col)
	}

	return columns
}

func (e *Extractor) getHypertableDimensionColumns(
	ctx context.Context,
	schemaName, tableName string,
) []string {
	if !e.hasTimescaleDB {
		return nil
	}

	var columns []string

	_ = e.queryHelper.FetchAll(ctx, queryHypertableDimensions, func(rows pgx.Rows) error {
		var column string
		if err := rows.Scan(&column); err != nil {
			return util.WrapError("scan dimension column", err)
		}

		columns = append(columns, column)

		return nil
	}, schemaName, tableName)

	return columns
}

func (e *Extractor) isTimescaleDBManagedIndex(
	indexName, tableName string,
	dimensionColumns []string,
) bool {
	if len(dimensionColumns) == 0 {
		return false
	}

	for _, column := range dimensionColumns {
		if indexName == tableName+"_"+column+"_idx" {
			return true
		}
	}

	return false
}
