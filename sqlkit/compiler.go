package sqlkit

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sqlkit-dev/sqlkit/internal/ident"
	"github.com/sqlkit-dev/sqlkit/internal/telemetry"
)

// compileState threads the positional-parameter counter, the accumulated
// text/values, and the ambient parent-table/current-column context through
// a recursive fragment walk. A zero-value compileState is the correct
// starting point for any top-level Compile call.
type compileState struct {
	sb            strings.Builder
	values        []any
	parentTable   string
	currentColumn string
	cfg           telemetry.Config
}

func (st *compileState) pushParam(v any) int {
	st.values = append(st.values, v)

	return len(st.values)
}

// Compile lowers f to parameterized SQL text plus a positional values
// vector. It is referentially transparent: the same fragment tree always
// compiles to the same {Text, Values} given the same ambient config.
func (f *Fragment) Compile() (CompiledQuery, error) {
	st := &compileState{parentTable: f.parentTable, cfg: telemetry.Default()}

	if err := f.compileInto(st); err != nil {
		return CompiledQuery{}, err
	}

	return CompiledQuery{Text: st.sb.String(), Values: st.values, Name: f.name}, nil
}

func (f *Fragment) compileInto(st *compileState) error {
	saved := st.parentTable
	if f.parentTable != "" {
		st.parentTable = f.parentTable
	}

	defer func() { st.parentTable = saved }()

	for i, lit := range f.segments {
		st.sb.WriteString(lit)

		if i < len(f.exprs) {
			if err := compileValue(st, f.exprs[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

// compileValue is the closed-sum dispatch over every permitted
// interpolation expression. A value matching none of the known shapes is
// either compiled as a bare parameter (scalars, slices, maps not wrapped
// in one of the typed helpers) or rejected as ErrAlienExpression when its
// kind can never cross the wire as data (func, chan, unsafe pointer).
func compileValue(st *compileState, v any) error {
	switch val := v.(type) {
	case nil:
		return compileParam(st, Param{Value: nil})
	case *Fragment:
		return val.compileInto(st)
	case Fragment:
		return val.compileInto(st)
	case Ident:
		st.sb.WriteString(ident.Quote(string(val)))

		return nil
	case Raw:
		st.sb.WriteString(string(val))

		return nil
	case Param:
		return compileParam(st, val)
	case defaultSentinel:
		st.sb.WriteString("DEFAULT")

		return nil
	case allSentinel:
		st.sb.WriteString("TRUE")

		return nil
	case selfSentinel:
		return compileSelf(st)
	case ParentColumn:
		return compileParentColumn(st, val)
	case ColumnNames:
		return compileColumnNames(st, val)
	case ColumnValues:
		return compileColumnValues(st, val)
	case PredicateMap:
		return compilePredicateMap(st, val)
	case ExprList:
		return compileExprList(st, []any(val))
	case []any:
		return compileExprList(st, val)
	case errExpr:
		return val.err
	default:
		return compileFallback(st, v)
	}
}

func compileFallback(st *compileState, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Errorf("%w: %T", ErrAlienExpression, v)
	default:
		return compileParam(st, Param{Value: v})
	}
}

func compileExprList(st *compileState, items []any) error {
	for _, item := range items {
		if err := compileValue(st, item); err != nil {
			return err
		}
	}

	return nil
}

func compileSelf(st *compileState) error {
	if st.currentColumn == "" {
		return ErrSelfWithoutColumn
	}

	st.sb.WriteString(ident.Quote(st.currentColumn))

	return nil
}

func compileParentColumn(st *compileState, pc ParentColumn) error {
	if st.parentTable == "" {
		return ErrParentWithoutTable
	}

	col := pc.Column
	if col == "" {
		if st.currentColumn == "" {
			return ErrSelfWithoutColumn
		}

		col = st.currentColumn
	}

	st.sb.WriteString(ident.Quote(st.parentTable) + "." + ident.Quote(col))

	return nil
}

func compileParam(st *compileState, p Param) error {
	switch cast := p.Cast.(type) {
	case string:
		idx := st.pushParam(p.Value)
		st.sb.WriteString(fmt.Sprintf(`CAST($%d AS "%s")`, idx, cast))

		return nil
	case bool:
		if cast {
			encoded, err := json.Marshal(p.Value)
			if err != nil {
				return fmt.Errorf("sqlkit: json-cast parameter: %w", err)
			}

			idx := st.pushParam(string(encoded))
			st.sb.WriteString(fmt.Sprintf(`CAST($%d AS "json")`, idx))

			return nil
		}

		idx := st.pushParam(p.Value)
		st.sb.WriteString("$" + strconv.Itoa(idx))

		return nil
	default:
		value := p.Value
		if shouldAutoCastJSON(st.cfg, value) {
			encoded, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("sqlkit: auto json-cast parameter: %w", err)
			}

			idx := st.pushParam(string(encoded))
			st.sb.WriteString(fmt.Sprintf(`CAST($%d AS "json")`, idx))

			return nil
		}

		idx := st.pushParam(value)
		st.sb.WriteString("$" + strconv.Itoa(idx))

		return nil
	}
}

// shouldAutoCastJSON classifies value as a "plain" array or map for the
// unset-cast auto-JSON decision: any slice or array except a []byte (which
// already has a native bytea mapping) counts as an array, and only a map
// with string keys is treated as a "plain object" — a struct type is a
// caller-defined aggregate, never auto-cast.
func shouldAutoCastJSON(cfg telemetry.Config, value any) bool {
	if value == nil {
		return false
	}

	if _, isBytes := value.([]byte); isBytes {
		return false
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return cfg.CastArrayParamsToJSON
	case reflect.Map:
		return cfg.CastObjectParamsToJSON && rv.Type().Key().Kind() == reflect.String
	default:
		return false
	}
}

func compileColumnNames(st *compileState, cn ColumnNames) error {
	names, err := columnNameList(cn.Value)
	if err != nil {
		return err
	}

	for i, n := range names {
		if i > 0 {
			st.sb.WriteString(", ")
		}

		st.sb.WriteString(ident.Quote(n))
	}

	return nil
}

func columnNameList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case map[string]any:
		return sortedKeys(v), nil
	default:
		return nil, fmt.Errorf("%w: ColumnNames requires []string or map[string]any, got %T", ErrAlienExpression, value)
	}
}

func compileColumnValues(st *compileState, cv ColumnValues) error {
	switch v := cv.Value.(type) {
	case []any:
		for i, item := range v {
			if i > 0 {
				st.sb.WriteString(", ")
			}

			if err := compileValueOrParam(st, item); err != nil {
				return err
			}
		}

		return nil
	case map[string]any:
		keys := sortedKeys(v)
		for i, k := range keys {
			if i > 0 {
				st.sb.WriteString(", ")
			}

			if err := compileValueOrParam(st, v[k]); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("%w: ColumnValues requires []any or map[string]any, got %T", ErrAlienExpression, cv.Value)
	}
}

// compileValueOrParam compiles a value that is either already a fragment
// expression (Fragment, Ident, Raw, Param, sentinel, ...) or a bare value
// that should be auto-wrapped into a parameter.
func compileValueOrParam(st *compileState, v any) error {
	return compileValue(st, v)
}

func compilePredicateMap(st *compileState, pm PredicateMap) error {
	if len(pm) == 0 {
		st.sb.WriteString("TRUE")

		return nil
	}

	st.sb.WriteString("(")

	keys := sortedKeys(pm)
	for i, k := range keys {
		if i > 0 {
			st.sb.WriteString(" AND ")
		}

		st.sb.WriteString(ident.Quote(k))
		st.sb.WriteString(" = ")

		savedCol := st.currentColumn
		st.currentColumn = k

		if err := compileValueOrParam(st, pm[k]); err != nil {
			st.currentColumn = savedCol

			return err
		}

		st.currentColumn = savedCol
	}

	st.sb.WriteString(")")

	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
