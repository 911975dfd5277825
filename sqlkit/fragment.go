// Package sqlkit implements the query-composition engine: a recursive,
// type-directed SQL fragment algebra that compiles to parameterized text
// plus a positional values vector, and a set of shortcut builders (Insert,
// Upsert, Update, Delete, Truncate, Select and friends) built on top of it.
package sqlkit

import (
	"context"
	"time"

	"github.com/sqlkit-dev/sqlkit/internal/ident"
	"github.com/sqlkit-dev/sqlkit/internal/telemetry"
	"github.com/sqlkit-dev/sqlkit/internal/util"
)

// Fragment is the compositional unit of the engine: literal text segments
// interleaved with interpolated expressions. It is immutable in intent —
// Named and the internal with* helpers return a copy with one field
// replaced; shortcut builders attach the transform/noop fields that way
// before handing the fragment to caller code.
type Fragment struct {
	segments    []string
	exprs       []any
	name        string
	parentTable string
	noop        bool
	noopResult  any
	transform   func(CompiledQuery, QueryResult) (any, error)
}

// SQL builds a fragment from literal segments interleaved with
// interpolated expressions, emulating a tagged template: the rendered text
// is segments[0] + render(exprs[0]) + segments[1] + ... + segments[n].
// len(segments) must equal len(exprs)+1.
func SQL(segments []string, exprs ...any) *Fragment {
	if len(segments) != len(exprs)+1 {
		panic("sqlkit.SQL: len(segments) must equal len(exprs)+1")
	}

	return &Fragment{segments: segments, exprs: exprs}
}

// Lit builds a fragment from a single literal string with no
// interpolation.
func Lit(text string) *Fragment {
	return &Fragment{segments: []string{text}}
}

// Join concatenates fragments with a literal separator between them,
// mirroring strings.Join for fragment trees (e.g. stitching together a
// comma-separated SET clause or an AND-ed predicate list built piecemeal).
func Join(frags []*Fragment, sep string) *Fragment {
	if len(frags) == 0 {
		return Lit("")
	}

	segments := make([]string, len(frags)+1)
	exprs := make([]any, len(frags))

	segments[0] = ""

	for i, f := range frags {
		exprs[i] = f
		if i < len(frags)-1 {
			segments[i+1] = sep
		} else {
			segments[i+1] = ""
		}
	}

	return &Fragment{segments: segments, exprs: exprs}
}

func (f *Fragment) withParentTable(table string) *Fragment {
	cp := *f
	cp.parentTable = table

	return &cp
}

// Named returns a copy of f carrying a prepared-statement name, so
// PostgreSQL can reuse the parsed/planned statement across executions.
func (f *Fragment) Named(name string) *Fragment {
	cp := *f
	cp.name = name

	return &cp
}

func withTransform(f *Fragment, transform func(CompiledQuery, QueryResult) (any, error)) *Fragment {
	cp := *f
	cp.transform = transform

	return &cp
}

func withNoop(f *Fragment, result any) *Fragment {
	cp := *f
	cp.noop = true
	cp.noopResult = result

	return &cp
}

// IsNoop reports whether f is a no-op fragment (e.g. insert of an empty
// slice) that Run will short-circuit unless forced.
func (f *Fragment) IsNoop() bool { return f.noop }

// CompiledQuery is the queryable-facing shape of a compiled fragment.
type CompiledQuery struct {
	Text   string
	Values []any
	Name   string
}

// QueryResult is the raw, unshaped result of executing a compiled query:
// one map per row, keyed by the driver's column names.
type QueryResult struct {
	Rows []map[string]any
}

// Queryable is anything that can execute a compiled query and return its
// rows. *internal/dbpool.Pool and a transaction wrapper around it both
// satisfy this.
type Queryable interface {
	Query(ctx context.Context, q CompiledQuery) (QueryResult, error)
}

// TransactionTagged is an optional decoration a Queryable may implement to
// expose a transaction identifier for telemetry correlation.
type TransactionTagged interface {
	TransactionID() (string, bool)
}

// Run compiles f, dispatches query/result telemetry, executes against q
// (unless f is a no-op and force is not set), and applies f's result
// transform (or the snake_case-to-camelCase default) to the rows.
func (f *Fragment) Run(ctx context.Context, q Queryable, force ...bool) (any, error) {
	forced := len(force) > 0 && force[0]

	compiled, err := f.Compile()
	if err != nil {
		return nil, err
	}

	cfg := telemetry.Default()
	txID := transactionIDOf(q)

	if cfg.Query != nil {
		cfg.Query(telemetryQuery(compiled), txID)
	}

	start := time.Now()

	if f.noop && !forced {
		if cfg.Result != nil {
			cfg.Result(telemetryQuery(compiled), txID, time.Since(start).Nanoseconds(), nil)
		}

		return f.noopResult, nil
	}

	res, err := q.Query(ctx, compiled)
	elapsed := time.Since(start).Nanoseconds()

	if err != nil {
		if cfg.Result != nil {
			cfg.Result(telemetryQuery(compiled), txID, elapsed, err)
		}

		return nil, util.WrapError("execute query", err)
	}

	transform := f.transform
	if transform == nil {
		transform = defaultTransform
	}

	out, err := transform(compiled, res)

	if cfg.Result != nil {
		cfg.Result(telemetryQuery(compiled), txID, elapsed, err)
	}

	return out, err
}

func transactionIDOf(q Queryable) string {
	tagged, ok := q.(TransactionTagged)
	if !ok {
		return ""
	}

	id, ok := tagged.TransactionID()
	if !ok {
		return ""
	}

	return id
}

func telemetryQuery(q CompiledQuery) telemetry.CompiledQuery {
	return telemetry.CompiledQuery{Text: q.Text, Values: q.Values, Name: q.Name}
}

// defaultTransform converts each result row's keys from snake_case to
// camelCase; it is the transform applied when a fragment carries none of
// its own (i.e. one built directly via SQL/Lit rather than a shortcut).
func defaultTransform(_ CompiledQuery, res QueryResult) (any, error) {
	out := make([]map[string]any, len(res.Rows))

	for i, row := range res.Rows {
		converted := make(map[string]any, len(row))
		for k, v := range row {
			converted[ident.CamelCase(k)] = v
		}

		out[i] = converted
	}

	return out, nil
}
