package sqlkit

// Ident marks a string as a trusted table/column identifier rather than a
// data value: it is rendered through ident.Quote, never pushed to the
// values vector.
type Ident string

// Raw splices literal SQL text into a fragment with no escaping at all.
// It is an explicitly unsafe escape hatch — callers must never build a Raw
// value from untrusted input.
type Raw string

// Param is a typed parameter: its Value is pushed to the positional values
// vector and rendered as `$k`, optionally wrapped in a CAST.
//
// Cast selects the wrapping behaviour:
//   - a string names a SQL type: renders `CAST($k AS "<type>")`, value
//     pushed unchanged.
//   - the bool true forces JSON serialization: renders
//     `CAST($k AS "json")`, the JSON-encoded string is pushed.
//   - the bool false forces a plain `$k` with the raw value, even if the
//     ambient config would otherwise auto-cast it.
//   - nil (the zero value) defers to the ambient telemetry.Config
//     auto-cast flags for array/map values, else plain `$k`.
type Param struct {
	Value any
	Cast  any
}

// P is a convenience constructor for an uncast parameter.
func P(value any) Param { return Param{Value: value} }

// Cast is a convenience constructor for a parameter cast to a named SQL
// type.
func Cast(value any, sqlType string) Param { return Param{Value: value, Cast: sqlType} }

// JSON is a convenience constructor for a parameter forced through
// CAST($k AS "json").
func JSON(value any) Param { return Param{Value: value, Cast: true} }

// ParentColumn renders as a reference to a column on the ambient
// parent-table alias, for use inside a lateral sub-query. An empty Column
// means "the ambient current column" (see Self).
type ParentColumn struct {
	Column string
}

// Parent builds a ParentColumn referencing the named column on the outer
// query's alias.
func Parent(column string) ParentColumn { return ParentColumn{Column: column} }

// ParentSelf references the ambient current column on the parent table,
// i.e. Parent(currentColumn).
func ParentSelf() ParentColumn { return ParentColumn{} }

type (
	defaultSentinel struct{}
	selfSentinel    struct{}
	allSentinel     struct{}
)

// Default renders as the literal SQL keyword DEFAULT.
var Default = defaultSentinel{} //nolint:gochecknoglobals

// Self renders as the identifier of the current column, valid only where
// the compiler has a column in context (e.g. inside a PredicateMap or
// ColumnValues entry). Using it elsewhere is ErrSelfWithoutColumn.
var Self = selfSentinel{} //nolint:gochecknoglobals

// All marks a select's predicate argument as "no WHERE clause" — every row
// matches.
var All = allSentinel{} //nolint:gochecknoglobals

// ColumnNames renders a quoted, comma-separated list of identifiers, either
// from a map (keys sorted ascending) or from an explicit ordered slice.
type ColumnNames struct {
	Value any // map[string]any or []string
}

// Names builds a ColumnNames wrapper.
func Names(value any) ColumnNames { return ColumnNames{Value: value} }

// ColumnValues renders a comma-separated value list, each entry compiled
// as a fragment (if it is one) or wrapped into a parameter. For a map, the
// key order matches the sorted order used by an adjacent ColumnNames over
// the same map.
type ColumnValues struct {
	Value any // map[string]any or []any
}

// Values builds a ColumnValues wrapper.
func Values(value any) ColumnValues { return ColumnValues{Value: value} }

// PredicateMap renders `(col1 = v1 AND col2 = v2 ...)` in sorted-key order;
// an empty map renders TRUE. Each right-hand side is compiled as a
// fragment (if it is one) or wrapped into a parameter.
type PredicateMap map[string]any

// ExprList concatenates its elements with no separator between them.
type ExprList []any

// errExpr defers a construction-time validation failure (e.g. a bad
// OrderSpec) to Compile, so shortcut builders that only return *Fragment
// can still surface it through the normal error path.
type errExpr struct {
	err error
}
