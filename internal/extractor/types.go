package extractor

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sqlkit-dev/sqlkit/internal/schema"
	"github.com/sqlkit-dev/sqlkit/internal/util"
)

// extractCustomTypes fetches enum, composite, and domain types, but only
// populates Values (and only matters to the generator) for enums; the
// generator maps every other custom type to the catalog escape hatch.
func (e *Extractor) extractCustomTypes(ctx context.Context) ([]schema.CustomType, error) {
	query := e.queries.customTypesQuery()

	var customTypes []schema.CustomType

	err := e.queryHelper.FetchAll(ctx, query, func(rows pgx.Rows) error {
		var ct schema.CustomType

		if err := rows.Scan(&ct.Schema, &ct.Name, &ct.Type); err != nil {
			return util.WrapError("scan custom type", err)
		}

		if ct.Type == "enum" {
			values, err := e.extractEnumValues(ctx, ct.Schema, ct.Name)
			if err == nil {
				ct.Values = values
			}
		}

		customTypes = append(customTypes, ct)

		return nil
	})
	if err != nil {
		return nil, util.WrapError("fetch custom types", err)
	}

	return customTypes, nil
}

func (e *Extractor) extractEnumValues(
	ctx context.Context,
	schemaName, typeName string,
) ([]string, error) {
	var values []string

	err := e.queryHelper.FetchAll(ctx, queryEnumValues, func(rows pgx.Rows) error {
		var value string
		if err := rows.Scan(&value); err != nil {
			return util.WrapError("scan enum value", err)
		}

		values = append(values, value)

		return nil
	}, schemaName, typeName)
	if err != nil {
		return nil, util.WrapError("fetch enum values", err)
	}

	return values, nil
}
