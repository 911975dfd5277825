package sqlkit

import (
	"fmt"
	"sort"
	"strconv"
)

// OrderDirection is one of Asc or Desc.
type OrderDirection string

const (
	Asc  OrderDirection = "ASC"
	Desc OrderDirection = "DESC"
)

// OrderNulls is one of NullsFirst or NullsLast.
type OrderNulls string

const (
	NullsFirst OrderNulls = "FIRST"
	NullsLast  OrderNulls = "LAST"
)

// OrderSpec is one ORDER BY term.
type OrderSpec struct {
	By        string
	Direction OrderDirection
	Nulls     OrderNulls
}

// LockSpec is one locking clause: `FOR <For> [OF <Of>] [<Wait>]`.
type LockSpec struct {
	For  string // "UPDATE", "NO KEY UPDATE", "SHARE", "KEY SHARE"
	Of   []string
	Wait string // "NOWAIT", "SKIP LOCKED", or ""
}

// Lateral is either a named map of sub-queries (each folded into the row
// JSON under its key) or a single passthru sub-query (whose result shape
// replaces the row entirely). Exactly one of Map or Single should be set.
type Lateral struct {
	Map    map[string]*Fragment
	Single *Fragment
}

// LateralMap builds a map-form lateral: each entry is merged into the row
// JSON as `'<key>': "lateral_<key>".result`.
func LateralMap(m map[string]*Fragment) *Lateral { return &Lateral{Map: m} }

// LateralOne builds a single-fragment passthru lateral: the row's JSON
// shape is entirely replaced by the sub-query's result.
func LateralOne(f *Fragment) *Lateral { return &Lateral{Single: f} }

// SelectOptions configures Select/SelectOne/SelectExactlyOne.
type SelectOptions struct {
	// Distinct is nil, a bool, a string/*Fragment (DISTINCT ON one
	// expression), or []string (DISTINCT ON a column list).
	Distinct any
	// Columns restricts the returned JSON object to these keys; empty
	// means the whole row.
	Columns []string
	Extras  map[string]*Fragment
	Order   []OrderSpec
	GroupBy []string
	Having  *Fragment
	Limit   *int
	Offset  *int
	// WithTies emits FETCH FIRST <limit> ROWS WITH TIES instead of LIMIT.
	WithTies bool
	// Alias is the table alias; mandatory for a self-join via lateral.
	Alias   string
	Lock    []LockSpec
	Lateral *Lateral
}

func firstSelectOptions(opts []SelectOptions) SelectOptions {
	if len(opts) == 0 {
		return SelectOptions{}
	}

	return opts[0]
}

type selectResultMode int

const (
	modeMany selectResultMode = iota
	modeOne
	modeExactlyOne
)

// Select builds a query returning every matching row as a single JSON
// array, via `coalesce(jsonb_agg(result), '[]')` over the inner tuple
// stream — the wrapping that keeps ORDER BY/LIMIT/OFFSET scoped to the
// inner query before aggregation.
func Select(table string, where any, opts ...SelectOptions) *Fragment {
	return buildSelect(table, where, firstSelectOptions(opts), modeMany)
}

// SelectOne builds a query returning at most one row's JSON object, or nil
// if no row matched.
func SelectOne(table string, where any, opts ...SelectOptions) *Fragment {
	return buildSelect(table, where, firstSelectOptions(opts), modeOne)
}

// SelectExactlyOne is like SelectOne, but Run raises
// ErrNotExactlyOne (via *NotExactlyOneError) when zero rows match.
func SelectExactlyOne(table string, where any, opts ...SelectOptions) *Fragment {
	return buildSelect(table, where, firstSelectOptions(opts), modeExactlyOne)
}

func buildSelect(table string, where any, opt SelectOptions, mode selectResultMode) *Fragment {
	if mode != modeMany {
		one := 1
		opt.Limit = &one
	}

	alias := opt.Alias
	if alias == "" {
		alias = table
	}

	inner := buildInnerSelect(table, alias, where, opt)

	switch mode {
	case modeOne:
		return withTransform(inner, transformSelectOne)
	case modeExactlyOne:
		return withTransform(inner, transformSelectExactlyOne)
	case modeMany:
		fallthrough
	default:
		b := newFragBuilder()
		b.lit("SELECT coalesce(jsonb_agg(result), '[]') AS result FROM (").
			frag(inner).
			lit(") AS ").expr(Ident("sq_" + alias))

		return withTransform(b.build(), transformSelectMany)
	}
}

func buildInnerSelect(table, alias string, where any, opt SelectOptions) *Fragment {
	b := newFragBuilder()
	b.lit("SELECT ")
	appendDistinct(b, opt.Distinct)
	b.frag(buildRowJSON(alias, opt))
	b.lit(" AS result FROM ").expr(Ident(table))

	if opt.Alias != "" {
		b.lit(" AS ").expr(Ident(opt.Alias))
	}

	appendLateralJoins(b, alias, opt.Lateral)
	b.lit(" WHERE ").expr(asWhereExpr(where))
	appendGroupBy(b, opt.GroupBy, opt.Having)
	appendOrder(b, opt.Order)
	appendLimitOffset(b, opt.Limit, opt.Offset, opt.WithTies)
	appendLock(b, opt.Lock)

	return b.build()
}

func buildRowJSON(alias string, opt SelectOptions) *Fragment {
	if opt.Lateral != nil && opt.Lateral.Single != nil {
		b := newFragBuilder()
		b.expr(Ident("lateral_passthru.result"))

		return b.build()
	}

	b := newFragBuilder()

	if len(opt.Columns) == 0 {
		b.lit("to_jsonb(").expr(Ident(alias)).lit(".*)")
	} else {
		b.lit("jsonb_build_object(")

		for i, col := range opt.Columns {
			if i > 0 {
				b.lit(", ")
			}

			b.expr(Param{Value: col}).lit("::text, ").expr(Ident(alias + "." + col))
		}

		b.lit(")")
	}

	appendExtras(b, opt.Extras)

	if opt.Lateral != nil {
		appendMapLaterals(b, opt.Lateral.Map)
	}

	return b.build()
}

func appendMapLaterals(b *fragBuilder, lateral map[string]*Fragment) {
	if len(lateral) == 0 {
		return
	}

	keys := make([]string, 0, len(lateral))
	for k := range lateral {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	b.lit(" || jsonb_build_object(")

	for i, k := range keys {
		if i > 0 {
			b.lit(", ")
		}

		b.lit("'" + k + "', ").expr(Ident("lateral_" + k + ".result"))
	}

	b.lit(")")
}

func appendLateralJoins(b *fragBuilder, outerAlias string, lateral *Lateral) {
	if lateral == nil {
		return
	}

	if lateral.Single != nil {
		sub := lateral.Single.withParentTable(outerAlias)
		b.lit(" LEFT JOIN LATERAL (").frag(sub).lit(") AS ").
			expr(Ident("lateral_passthru")).lit(" ON true")

		return
	}

	keys := make([]string, 0, len(lateral.Map))
	for k := range lateral.Map {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		sub := lateral.Map[k].withParentTable(outerAlias)
		b.lit(" LEFT JOIN LATERAL (").frag(sub).lit(") AS ").
			expr(Ident("lateral_" + k)).lit(" ON true")
	}
}

func appendDistinct(b *fragBuilder, distinct any) {
	switch v := distinct.(type) {
	case nil:
		return
	case bool:
		if v {
			b.lit("DISTINCT ")
		}
	case string:
		b.lit("DISTINCT ON (").expr(Ident(v)).lit(") ")
	case *Fragment:
		b.lit("DISTINCT ON (").frag(v).lit(") ")
	case []string:
		b.lit("DISTINCT ON (")

		for i, c := range v {
			if i > 0 {
				b.lit(", ")
			}

			b.expr(Ident(c))
		}

		b.lit(") ")
	}
}

func appendOrder(b *fragBuilder, order []OrderSpec) {
	if len(order) == 0 {
		return
	}

	b.lit(" ORDER BY ")

	for i, o := range order {
		if i > 0 {
			b.lit(", ")
		}

		b.expr(Ident(o.By))

		dir := o.Direction
		if dir == "" {
			dir = Asc
		}

		switch dir {
		case Asc:
			b.lit(" ASC")
		case Desc:
			b.lit(" DESC")
		default:
			b.expr(errExpr{err: ErrBadOrderDirection})

			continue
		}

		if o.Nulls == "" {
			continue
		}

		switch o.Nulls {
		case NullsFirst:
			b.lit(" NULLS FIRST")
		case NullsLast:
			b.lit(" NULLS LAST")
		default:
			b.expr(errExpr{err: ErrBadOrderNulls})
		}
	}
}

func appendGroupBy(b *fragBuilder, groupBy []string, having *Fragment) {
	if len(groupBy) > 0 {
		b.lit(" GROUP BY ")

		for i, c := range groupBy {
			if i > 0 {
				b.lit(", ")
			}

			b.expr(Ident(c))
		}
	}

	if having != nil {
		b.lit(" HAVING ").frag(having)
	}
}

func appendLimitOffset(b *fragBuilder, limit, offset *int, withTies bool) {
	if limit != nil {
		if withTies {
			b.lit(" FETCH FIRST ").expr(Param{Value: *limit}).lit(" ROWS WITH TIES")
		} else {
			b.lit(" LIMIT ").expr(Param{Value: *limit})
		}
	}

	if offset != nil {
		b.lit(" OFFSET ").expr(Param{Value: *offset})
	}
}

func appendLock(b *fragBuilder, locks []LockSpec) {
	for _, l := range locks {
		b.lit(" FOR " + l.For)

		if len(l.Of) > 0 {
			b.lit(" OF ")

			for i, t := range l.Of {
				if i > 0 {
					b.lit(", ")
				}

				b.expr(Ident(t))
			}
		}

		if l.Wait != "" {
			b.lit(" " + l.Wait)
		}
	}
}

func transformSelectMany(_ CompiledQuery, res QueryResult) (any, error) {
	if len(res.Rows) == 0 {
		return []any{}, nil
	}

	return res.Rows[0]["result"], nil
}

func transformSelectOne(_ CompiledQuery, res QueryResult) (any, error) {
	if len(res.Rows) == 0 {
		return nil, nil
	}

	return res.Rows[0]["result"], nil
}

func transformSelectExactlyOne(q CompiledQuery, res QueryResult) (any, error) {
	if len(res.Rows) == 0 {
		return nil, &NotExactlyOneError{Query: q}
	}

	return res.Rows[0]["result"], nil
}

// aggregateOptions configures Count/Sum/Avg/Min/Max's target expression;
// an empty Column means `*`, valid only for Count.
type aggregateOptions struct {
	Column string
}

func aggregateFragment(fn, table string, where any, column string) *Fragment {
	b := newFragBuilder()
	b.lit("SELECT " + fn + "(")

	if column == "" {
		b.lit("*")
	} else {
		b.expr(Ident(column))
	}

	b.lit(") AS result FROM ").expr(Ident(table)).lit(" WHERE ").expr(asWhereExpr(where))

	return withTransform(b.build(), transformNumeric)
}

// Count returns the number of matching rows, or of non-null values in the
// optional column argument.
func Count(table string, where any, column ...string) *Fragment {
	col := ""
	if len(column) > 0 {
		col = column[0]
	}

	return aggregateFragment("count", table, where, col)
}

// Sum returns the sum of column over matching rows.
func Sum(table string, where any, column string) *Fragment {
	return aggregateFragment("sum", table, where, column)
}

// Avg returns the average of column over matching rows.
func Avg(table string, where any, column string) *Fragment {
	return aggregateFragment("avg", table, where, column)
}

// Min returns the minimum of column over matching rows.
func Min(table string, where any, column string) *Fragment {
	return aggregateFragment("min", table, where, column)
}

// Max returns the maximum of column over matching rows.
func Max(table string, where any, column string) *Fragment {
	return aggregateFragment("max", table, where, column)
}

// transformNumeric parses the aggregate's single result column, accepting
// string (the driver returns int8 as text), float64, or int64 — losing
// precision on very large counts is an accepted tradeoff, matching the
// distilled spec's Number(...) behaviour.
func transformNumeric(_ CompiledQuery, res QueryResult) (any, error) {
	if len(res.Rows) == 0 {
		return 0.0, nil
	}

	raw := res.Rows[0]["result"]

	switch v := raw.(type) {
	case nil:
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("sqlkit: parse aggregate result %q: %w", v, err)
		}

		return f, nil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("sqlkit: unexpected aggregate result type %T", raw)
	}
}
