package sqlkit

import "sort"

// ReturningOptions controls the shape of the JSON object each Insert,
// Upsert, Update, or Delete shortcut returns per affected row.
type ReturningOptions struct {
	// Columns restricts the returned JSON object to these keys; empty
	// means the whole row, via to_jsonb(alias.*).
	Columns []string
	// Extras merges additional computed keys into the JSON object, in
	// sorted key order.
	Extras map[string]*Fragment
}

// buildReturningSelector renders to_jsonb(alias.*) or
// jsonb_build_object($1::text, col1, $2::text, col2, ...), then folds in
// any caller-supplied extras.
func buildReturningSelector(alias string, opts ReturningOptions) *Fragment {
	b := newFragBuilder()

	if len(opts.Columns) == 0 {
		b.lit("to_jsonb(").expr(Ident(alias)).lit(".*)")
	} else {
		b.lit("jsonb_build_object(")

		for i, col := range opts.Columns {
			if i > 0 {
				b.lit(", ")
			}

			b.expr(Param{Value: col}).lit("::text, ").expr(Ident(alias + "." + col))
		}

		b.lit(")")
	}

	appendExtras(b, opts.Extras)

	return b.build()
}

func appendExtras(b *fragBuilder, extras map[string]*Fragment) {
	if len(extras) == 0 {
		return
	}

	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	b.lit(" || jsonb_build_object(")

	for i, k := range keys {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Param{Value: k}).lit("::text, ").frag(extras[k])
	}

	b.lit(")")
}

// appendLiteralJSONPair folds a single literal-keyed pair into the JSON
// object via `|| jsonb_build_object('key', <frag>)`, used for the upsert
// $action reporting field, which is a fixed key rather than caller data.
func appendLiteralJSONPair(b *fragBuilder, key string, value *Fragment) {
	b.lit(" || jsonb_build_object('" + key + "', ").frag(value).lit(")")
}

// buildReturningClause appends `RETURNING <selector> AS result` to b.
func buildReturningClause(b *fragBuilder, alias string, opts ReturningOptions) {
	b.lit(" RETURNING ").frag(buildReturningSelector(alias, opts)).lit(" AS result")
}
