package sqlkit

import (
	"fmt"
	"sort"
)

// Insert builds an `INSERT INTO <table> (...) VALUES (...) RETURNING ...`
// fragment. row is either a map[string]any (a single row) or a
// []map[string]any (multiple rows, unioned by key — a row missing a key
// another row has gets DEFAULT in that position).
//
// An empty []map[string]any produces a no-op fragment: Run returns []any{}
// without a round-trip unless forced, in which case it executes
// `INSERT INTO t SELECT null WHERE false`, a statement guaranteed to
// insert zero rows.
func Insert(table string, row any, opts ...ReturningOptions) *Fragment {
	ret := firstReturning(opts)

	switch v := row.(type) {
	case []map[string]any:
		return insertMany(table, v, ret)
	case map[string]any:
		return insertOne(table, v, ret)
	default:
		panic(fmt.Sprintf("sqlkit.Insert: row must be map[string]any or []map[string]any, got %T", row))
	}
}

func firstReturning(opts []ReturningOptions) ReturningOptions {
	if len(opts) == 0 {
		return ReturningOptions{}
	}

	return opts[0]
}

func insertMany(table string, rows []map[string]any, ret ReturningOptions) *Fragment {
	if len(rows) == 0 {
		return insertEmptyNoop(table)
	}

	cols := unionSortedKeys(rows)

	b := newFragBuilder()
	b.lit("INSERT INTO ").expr(Ident(table)).lit(" (")

	for i, c := range cols {
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

		for ci, c := range cols {
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

	buildReturningClause(b, table, ret)

	return withTransform(b.build(), transformInsertMany)
}

func insertOne(table string, row map[string]any, ret ReturningOptions) *Fragment {
	cols := sortedMapKeys(row)

	b := newFragBuilder()
	b.lit("INSERT INTO ").expr(Ident(table)).lit(" (")

	for i, c := range cols {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Ident(c))
	}

	b.lit(") VALUES (")

	for i, c := range cols {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(row[c])
	}

	b.lit(")")

	buildReturningClause(b, table, ret)

	return withTransform(b.build(), transformInsertOne)
}

func insertEmptyNoop(table string) *Fragment {
	b := newFragBuilder()
	b.lit("INSERT INTO ").expr(Ident(table)).lit(" SELECT null WHERE false")

	return withNoop(withTransform(b.build(), transformInsertMany), []any{})
}

func transformInsertOne(_ CompiledQuery, res QueryResult) (any, error) {
	if len(res.Rows) == 0 {
		return nil, nil
	}

	return res.Rows[0]["result"], nil
}

func transformInsertMany(_ CompiledQuery, res QueryResult) (any, error) {
	out := make([]any, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = row["result"]
	}

	return out, nil
}

func unionSortedKeys(rows []map[string]any) []string {
	set := make(map[string]struct{})

	for _, row := range rows {
		for k := range row {
			set[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
