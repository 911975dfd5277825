package sqlkit

// Delete builds a `DELETE FROM <table> WHERE <where> RETURNING ...`
// fragment. where is a PredicateMap, a plain map[string]any, sqlkit.All,
// or an arbitrary *Fragment.
func Delete(table string, where any, opts ...ReturningOptions) *Fragment {
	ret := firstReturning(opts)

	b := newFragBuilder()
	b.lit("DELETE FROM ").expr(Ident(table)).lit(" WHERE ").expr(asWhereExpr(where))

	buildReturningClause(b, table, ret)

	return withTransform(b.build(), transformInsertMany)
}
