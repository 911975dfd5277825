package sqlkit

// Update builds an `UPDATE <table> SET (...) = ROW(...) WHERE <where>
// RETURNING ...` fragment. where is a PredicateMap, a plain
// map[string]any (treated as a PredicateMap), sqlkit.All, or an arbitrary
// *Fragment. The ROW(...) form is used even for a single column, since
// PostgreSQL requires it for the parenthesized column-list SET form.
func Update(table string, values map[string]any, where any, opts ...ReturningOptions) *Fragment {
	ret := firstReturning(opts)
	cols := sortedMapKeys(values)

	b := newFragBuilder()
	b.lit("UPDATE ").expr(Ident(table)).lit(" SET (")

	for i, c := range cols {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Ident(c))
	}

	b.lit(") = ROW(")

	for i, c := range cols {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(values[c])
	}

	b.lit(")")
	b.lit(" WHERE ").expr(asWhereExpr(where))

	buildReturningClause(b, table, ret)

	return withTransform(b.build(), transformInsertMany)
}

// asWhereExpr normalizes a where argument into something compileValue
// already knows how to render: a plain map[string]any is treated as a
// PredicateMap so callers don't have to wrap a literal map themselves.
func asWhereExpr(where any) any {
	if m, ok := where.(map[string]any); ok {
		return PredicateMap(m)
	}

	return where
}
