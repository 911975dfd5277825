package sqlkit

import "fmt"

// ConflictTarget selects the ON CONFLICT arbiter for Upsert: either an
// explicit column list or a named unique constraint.
type ConflictTarget struct {
	Columns    []string
	Constraint string
}

// OnColumns builds a column-list conflict target: `ON CONFLICT (c1, c2)`.
func OnColumns(cols ...string) ConflictTarget { return ConflictTarget{Columns: cols} }

// OnConstraint builds a named-constraint conflict target:
// `ON CONFLICT ON CONSTRAINT name`.
func OnConstraint(name string) ConflictTarget { return ConflictTarget{Constraint: name} }

// UpsertOptions configures Upsert's conflict-resolution behaviour.
type UpsertOptions struct {
	// UpdateValues overrides specific columns' update expressions with a
	// caller-supplied value (fragment or plain value) instead of
	// EXCLUDED.<col>.
	UpdateValues map[string]any
	// UpdateColumns is the explicit set of columns to update on conflict;
	// it is unioned with the keys of UpdateValues. If it is empty, the full
	// set of inserted columns is used in its place.
	UpdateColumns []string
	// NoNullUpdateColumns is sqlkit.All, a []string of column names, or
	// nil. For a matching column, the update expression becomes
	// `CASE WHEN EXCLUDED.c IS NULL THEN t.c ELSE EXCLUDED.c END` instead
	// of a plain `EXCLUDED.c`.
	NoNullUpdateColumns any
	// ReportAction set to "suppress" omits the `$action` key that
	// otherwise reports "INSERT" or "UPDATE" per affected row.
	ReportAction string
	Returning    ReturningOptions
}

// Upsert builds an `INSERT ... ON CONFLICT ... DO UPDATE/NOTHING
// RETURNING ...` fragment. row is a map[string]any or []map[string]any; an
// empty []map[string]any delegates to Insert.
func Upsert(table string, row any, target ConflictTarget, opts ...UpsertOptions) *Fragment {
	opt := firstUpsertOptions(opts)

	rows, wasArray, err := normalizeUpsertRows(row)
	if err != nil {
		panic(err)
	}

	if wasArray && len(rows) == 0 {
		return Insert(table, []map[string]any{}, opt.Returning)
	}

	insertedCols := unionSortedKeys(rows)

	b := newFragBuilder()
	b.lit("INSERT INTO ").expr(Ident(table)).lit(" (")

	for i, c := range insertedCols {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Ident(c))
	}

	b.lit(") VALUES ")

	for ri, row := range rows {
		if ri > 0 {
			b.lit(", ")
		}

		b.lit("(")

		for ci, c := range insertedCols {
			if ci > 0 {
				b.lit(", ")
			}

			if v, ok := row[c]; ok {
				b.expr(v)
			} else {
				b.expr(Default)
			}
		}

		b.lit(")")
	}

	b.lit(" ON CONFLICT ")
	appendConflictTarget(b, target)

	updateCols := resolveUpdateColumns(opt, insertedCols)
	if len(updateCols) == 0 {
		b.lit(" DO NOTHING")
	} else {
		b.lit(" DO UPDATE SET (")

		for i, c := range updateCols {
			if i > 0 {
				b.lit(", ")
			}

			b.expr(Ident(c))
		}

		b.lit(") = ROW(")

		for i, c := range updateCols {
			if i > 0 {
				b.lit(", ")
			}

			appendUpdateValueExpr(b, table, c, opt)
		}

		b.lit(")")
	}

	b.lit(" RETURNING ").frag(buildReturningSelector(table, opt.Returning))

	if opt.ReportAction != "suppress" {
		appendLiteralJSONPair(b, "$action", Lit("CASE xmax WHEN 0 THEN 'INSERT' ELSE 'UPDATE' END"))
	}

	b.lit(" AS result")

	return withTransform(b.build(), upsertTransform(wasArray))
}

func firstUpsertOptions(opts []UpsertOptions) UpsertOptions {
	if len(opts) == 0 {
		return UpsertOptions{}
	}

	return opts[0]
}

func normalizeUpsertRows(row any) ([]map[string]any, bool, error) {
	switch v := row.(type) {
	case []map[string]any:
		return v, true, nil
	case map[string]any:
		return []map[string]any{v}, false, nil
	default:
		return nil, false, fmt.Errorf("sqlkit.Upsert: row must be map[string]any or []map[string]any, got %T", row)
	}
}

func appendConflictTarget(b *fragBuilder, target ConflictTarget) {
	if target.Constraint != "" {
		b.lit("ON CONSTRAINT ").expr(Ident(target.Constraint))

		return
	}

	b.lit("(")

	for i, c := range target.Columns {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Ident(c))
	}

	b.lit(")")
}

// resolveUpdateColumns unions UpdateColumns (in caller order, or the
// inserted columns when UpdateColumns is empty) with the sorted keys of
// UpdateValues, deduplicated, preserving first-seen order.
// Sorting UpdateValues' keys (rather than relying on Go's randomized map
// iteration) keeps the result deterministic, matching the sort-order
// determinism invariant elsewhere in the engine.
func resolveUpdateColumns(opt UpsertOptions, insertedCols []string) []string {
	baseCols := opt.UpdateColumns
	if len(baseCols) == 0 {
		baseCols = insertedCols
	}

	seen := make(map[string]struct{})

	result := make([]string, 0, len(baseCols)+len(opt.UpdateValues))

	for _, c := range baseCols {
		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}

		result = append(result, c)
	}

	for _, c := range sortedMapKeys(opt.UpdateValues) {
		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}

		result = append(result, c)
	}

	return result
}

func appendUpdateValueExpr(b *fragBuilder, table, col string, opt UpsertOptions) {
	if noNullApplies(opt.NoNullUpdateColumns, col) {
		b.lit("CASE WHEN EXCLUDED.").expr(Ident(col)).
			lit(" IS NULL THEN ").expr(Ident(table + "." + col)).
			lit(" ELSE EXCLUDED.").expr(Ident(col)).
			lit(" END")

		return
	}

	// A caller-supplied updateValues[c] overrides EXCLUDED.c — see the
	// upsert open item resolved in DESIGN.md.
	if v, ok := opt.UpdateValues[col]; ok {
		b.expr(v)

		return
	}

	b.lit("EXCLUDED.").expr(Ident(col))
}

func noNullApplies(spec any, col string) bool {
	switch v := spec.(type) {
	case allSentinel:
		return true
	case []string:
		for _, c := range v {
			if c == col {
				return true
			}
		}

		return false
	default:
		return false
	}
}

func upsertTransform(wasArray bool) func(CompiledQuery, QueryResult) (any, error) {
	if wasArray {
		return transformInsertMany
	}

	return transformInsertOne
}
