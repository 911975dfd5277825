package extractor

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sqlkit-dev/sqlkit/internal/schema"
	"github.com/sqlkit-dev/sqlkit/internal/util"
)

func (e *Extractor) extractTables(ctx context.Context) ([]schema.Table, error) {
	query := e.queries.tablesQuery()

	var tables []schema.Table

	err := e.queryHelper.FetchAll(ctx, query, func(rows pgx.Rows) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var table schema.Table

		if err := rows.Scan(&table.Schema, &table.Name); err != nil {
			return util.WrapError("scan table", err)
		}

		tables = append(tables, table)

		return nil
	})
	if err != nil {
		return nil, util.WrapError("fetch tables", err)
	}

	for i := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck
		}

		if err := e.enrichTable(ctx, &tables[i]); err != nil {
			return nil, err
		}
	}

	return tables, nil
}

// enrichTable fills in a table's columns and unique indexes, the only
// facts beyond schema/name the generator reads off a Table.
func (e *Extractor) enrichTable(ctx context.Context, table *schema.Table) error {
	enrichers := []func(context.Context, *schema.Table) error{
		e.enrichColumns,
		e.enrichIndexes,
	}

	for _, enrich := range enrichers {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		if err := enrich(ctx, table); err != nil {
			return util.WrapError("enrich table "+table.QualifiedName(), err)
		}
	}

	table.Sort()

	return nil
}

func (e *Extractor) enrichColumns(ctx context.Context, table *schema.Table) error {
	return e.extractColumns(ctx, table)
}

func (e *Extractor) enrichIndexes(ctx context.Context, table *schema.Table) error {
	return e.extractIndexes(ctx, table)
}

func (e *Extractor) extractColumns(ctx context.Context, table *schema.Table) error {
	var columns []schema.Column

	err := e.queryHelper.FetchAll(ctx, queryColumns, func(rows pgx.Rows) error {
		var (
			col     schema.Column
			udtName string
		)

		if err := rows.Scan(&col.Name, &col.DataType, &col.Position, &udtName); err != nil {
			return util.WrapError("scan column", err)
		}

		// Enum (and other user-defined) columns report data_type
		// "USER-DEFINED"; their type name is the udt_name.
		if col.DataType == "USER-DEFINED" && udtName != "" {
			col.DataType = udtName
		}

		if udtName != "" && (col.DataType == "ARRAY" || udtName[0] == '_') {
			col.IsArray = true

			if elementType := extractArrayElementType(udtName); elementType != "" {
				col.DataType = normalizeArrayElementType(elementType)
			}
		}

		columns = append(columns, col)

		return nil
	}, table.Schema, table.Name)
	if err != nil {
		return util.WrapError("fetch columns", err)
	}

	table.Columns = columns

	return nil
}

func extractArrayElementType(udtName string) string {
	if len(udtName) == 0 || udtName[0] != '_' {
		return ""
	}

	return udtName[1:]
}

func normalizeArrayElementType(elementType string) string {
	dt := strings.ToLower(strings.TrimSpace(elementType))

	aliases := map[string]string{
		"int":               "integer",
		"int2":              "smallint",
		"int4":              "integer",
		"int8":              "bigint",
		"float":             "double precision",
		"float4":            "real",
		"float8":            "double precision",
		"serial":            "integer",
		"bigserial":         "bigint",
		"bool":              "boolean",
		"character varying": "varchar",
		"character":         "char",
		"decimal":           "numeric",
		"timestamp":         "timestamp without time zone",
		"timestamptz":       "timestamp with time zone",
		"time":              "time without time zone",
		"timetz":            "time with time zone",
	}

	if normalized, exists := aliases[dt]; exists {
		return normalized
	}

	return dt
}
