package sqlkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

func TestCompileLiteralSegments(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT 1 WHERE id = ", ""}, sqlkit.P(42))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, "SELECT 1 WHERE id = $1", q.Text)
	require.Equal(t, []any{42}, q.Values)
}

func TestCompileIsReferentiallyTransparent(t *testing.T) {
	t.Parallel()

	build := func() *sqlkit.Fragment {
		return sqlkit.SQL([]string{"SELECT * FROM t WHERE a = ", " AND b = ", ""}, sqlkit.P(1), sqlkit.P("x"))
	}

	q1, err := build().Compile()
	require.NoError(t, err)

	q2, err := build().Compile()
	require.NoError(t, err)

	require.Equal(t, q1.Text, q2.Text)
	require.Equal(t, q1.Values, q2.Values)
}

func TestCompileParamCountMatchesPositionalIdentity(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL(
		[]string{"SELECT ", ", ", ", ", ""},
		sqlkit.P("a"), sqlkit.P("b"), sqlkit.P("c"),
	)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, "SELECT $1, $2, $3", q.Text)
	require.Equal(t, []any{"a", "b", "c"}, q.Values)
}

func TestCompileNestedFragment(t *testing.T) {
	t.Parallel()

	inner := sqlkit.SQL([]string{"a = ", ""}, sqlkit.P(1))
	outer := sqlkit.SQL([]string{"SELECT * FROM t WHERE ", ""}, inner)

	q, err := outer.Compile()
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t WHERE a = $1", q.Text)
	require.Equal(t, []any{1}, q.Values)
}

func TestCompileRawSplicesUnescaped(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT * FROM t ", ""}, sqlkit.Raw("LIMIT 10"))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t LIMIT 10", q.Text)
	require.Empty(t, q.Values)
}

func TestCompileIdentQuotesLowercasePassthrough(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT * FROM ", ""}, sqlkit.Ident("users"))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users"`, q.Text)
}

func TestCompileIdentFoldsToSnakeCaseWhenAnyUppercasePresent(t *testing.T) {
	t.Parallel()

	// Any uppercase anywhere in the identifier triggers snake_case folding
	// of the whole thing, not just the offending segment.
	f := sqlkit.SQL([]string{"SELECT * FROM ", ""}, sqlkit.Ident("userProfile"))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "user_profile"`, q.Text)
}

func TestCompileParamCastToNamedType(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT ", ""}, sqlkit.Cast("1,2,3", "int4range"))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, `SELECT CAST($1 AS "int4range")`, q.Text)
	require.Equal(t, []any{"1,2,3"}, q.Values)
}

func TestCompileParamJSONCast(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT ", ""}, sqlkit.JSON(map[string]any{"a": 1}))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, `SELECT CAST($1 AS "json")`, q.Text)
	require.Equal(t, []any{`{"a":1}`}, q.Values)
}

func TestCompileAlienExpressionRejectsFunc(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT ", ""}, func() {})

	_, err := f.Compile()
	require.ErrorIs(t, err, sqlkit.ErrAlienExpression)
}

func TestCompilePredicateMapSortsKeysDeterministically(t *testing.T) {
	t.Parallel()

	pm := sqlkit.PredicateMap{"zeta": 1, "alpha": 2, "mid": 3}

	f := sqlkit.SQL([]string{"SELECT * FROM t WHERE ", ""}, pm)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM t WHERE ("alpha" = $1 AND "mid" = $2 AND "zeta" = $3)`, q.Text)
	require.Equal(t, []any{2, 3, 1}, q.Values)
}

func TestCompileEmptyPredicateMapIsTrue(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT * FROM t WHERE ", ""}, sqlkit.PredicateMap{})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t WHERE TRUE", q.Text)
}

func TestCompileSelfWithoutColumnIsError(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT ", ""}, sqlkit.Self)

	_, err := f.Compile()
	require.ErrorIs(t, err, sqlkit.ErrSelfWithoutColumn)
}

func TestCompileParentColumnWithoutTableIsError(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT ", ""}, sqlkit.Parent("id"))

	_, err := f.Compile()
	require.ErrorIs(t, err, sqlkit.ErrParentWithoutTable)
}
