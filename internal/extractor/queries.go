package extractor

import (
	"fmt"
	"strings"
)

type queryBuilder struct {
	excludeSchemas      []string
	includeSystemTables bool
}

func (qb *queryBuilder) schemaFilter() string {
	var builder strings.Builder

	builder.WriteString("table_schema NOT LIKE 'pg_temp_%'")
	builder.WriteString(" AND table_schema NOT LIKE 'pg_toast_temp_%'")

	if len(qb.excludeSchemas) > 0 {
		builder.WriteString(" AND table_schema NOT IN (")

		for i, s := range qb.excludeSchemas {
			if i > 0 {
				builder.WriteString(", ")
			}

			builder.WriteString(fmt.Sprintf("'%s'", s))
		}

		builder.WriteString(")")
	}

	return builder.String()
}

func (qb *queryBuilder) namespaceFilter(column string) string {
	var builder strings.Builder

	builder.WriteString(column)
	builder.WriteString(" NOT LIKE 'pg_temp_%' AND ")
	builder.WriteString(column)
	builder.WriteString(" NOT LIKE 'pg_toast_temp_%'")

	if len(qb.excludeSchemas) > 0 {
		builder.WriteString(" AND ")
		builder.WriteString(column)
		builder.WriteString(" NOT IN (")

		for i, s := range qb.excludeSchemas {
			if i > 0 {
				builder.WriteString(", ")
			}

			builder.WriteString(fmt.Sprintf("'%s'", s))
		}

		builder.WriteString(")")
	}

	return builder.String()
}

func (qb *queryBuilder) systemTableFilter() string {
	if qb.includeSystemTables {
		return ""
	}

	return "AND NOT (t.table_schema = 'public' AND t.table_name = 'schema_migrations')"
}

const (
	queryTables = `
		SELECT
			t.table_schema,
			t.table_name
		FROM information_schema.tables t
		JOIN pg_catalog.pg_class c ON c.relname = t.table_name
		JOIN pg_catalog.pg_namespace n ON n.nspname = t.table_schema AND c.relnamespace = n.oid
		WHERE t.table_type = 'BASE TABLE'
		AND %s
		%s
		AND NOT EXISTS (
			SELECT 1 FROM pg_catalog.pg_inherits i
			WHERE i.inhrelid = c.oid AND i.inhparent != 0
		)
		ORDER BY t.table_schema, t.table_name`

	queryColumns = `
		SELECT
			c.column_name,
			c.data_type,
			c.ordinal_position,
			c.udt_name
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`

	queryIndexes = `
		SELECT
			i.indexname,
			ix.indisunique,
			pg_get_indexdef(ix.indexrelid)
		FROM pg_indexes i
		JOIN pg_class c ON c.relname = i.indexname
		JOIN pg_index ix ON ix.indexrelid = c.oid
		WHERE i.schemaname = $1 AND i.tablename = $2
		ORDER BY i.indexname`

	queryHypertableDimensions = `
		SELECT column_name
		FROM timescaledb_information.dimensions
		WHERE hypertable_schema = $1 AND hypertable_name = $2
		ORDER BY dimension_number`

	queryCustomTypes = `
		SELECT
			n.nspname,
			t.typname,
			CASE t.typtype
				WHEN 'e' THEN 'enum'
				WHEN 'c' THEN 'composite'
				WHEN 'd' THEN 'domain'
				ELSE 'other'
			END
		FROM pg_type t
		JOIN pg_namespace n ON t.typnamespace = n.oid
		WHERE t.typtype IN ('e', 'c', 'd')
		AND %s
		AND NOT EXISTS (
			SELECT 1 FROM pg_class c
			WHERE c.relnamespace = t.typnamespace
			AND c.relname = t.typname
			AND c.relkind IN ('r', 'v', 'm', 'f', 'p')
		)
		ORDER BY n.nspname, t.typname`

	queryEnumValues = `
		SELECT e.enumlabel
		FROM pg_enum e
		JOIN pg_type t ON e.enumtypid = t.oid
		JOIN pg_namespace n ON t.typnamespace = n.oid
		WHERE n.nspname = $1 AND t.typname = $2
		ORDER BY e.enumsortorder`
)

func (qb *queryBuilder) tablesQuery() string {
	return fmt.Sprintf(queryTables, qb.schemaFilter(), qb.systemTableFilter())
}

func (qb *queryBuilder) customTypesQuery() string {
	return fmt.Sprintf(queryCustomTypes, qb.namespaceFilter("n.nspname"))
}
