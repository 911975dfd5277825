package sqlkit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

// fakeQueryable is an in-memory sqlkit.Queryable that records the last
// compiled query it saw and returns a canned result, for exercising Run
// without a real database.
type fakeQueryable struct {
	lastQuery sqlkit.CompiledQuery
	result    sqlkit.QueryResult
	err       error
}

func (f *fakeQueryable) Query(_ context.Context, q sqlkit.CompiledQuery) (sqlkit.QueryResult, error) {
	f.lastQuery = q

	return f.result, f.err
}

func TestJoinConcatenatesWithSeparator(t *testing.T) {
	t.Parallel()

	f := sqlkit.Join([]*sqlkit.Fragment{
		sqlkit.SQL([]string{"a = ", ""}, sqlkit.P(1)),
		sqlkit.SQL([]string{"b = ", ""}, sqlkit.P(2)),
		sqlkit.SQL([]string{"c = ", ""}, sqlkit.P(3)),
	}, " AND ")

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t, "a = $1 AND b = $2 AND c = $3", q.Text)
	require.Equal(t, []any{1, 2, 3}, q.Values)
}

func TestJoinOfEmptySliceIsEmptyLiteral(t *testing.T) {
	t.Parallel()

	q, err := sqlkit.Join(nil, " AND ").Compile()
	require.NoError(t, err)
	require.Equal(t, "", q.Text)
}

func TestRunAppliesDefaultCamelCaseTransform(t *testing.T) {
	t.Parallel()

	f := sqlkit.SQL([]string{"SELECT * FROM t"})
	fq := &fakeQueryable{result: sqlkit.QueryResult{Rows: []map[string]any{
		{"user_id": 1, "display_name": "ada"},
	}}}

	out, err := f.Run(context.Background(), fq)
	require.NoError(t, err)

	rows, ok := out.([]map[string]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0]["userId"])
	require.Equal(t, "ada", rows[0]["displayName"])
}

func TestRunNoopSkipsQueryUnlessForced(t *testing.T) {
	t.Parallel()

	f := sqlkit.Insert("widgets", []map[string]any{})
	fq := &fakeQueryable{result: sqlkit.QueryResult{Rows: []map[string]any{{"result": "should not appear"}}}}

	out, err := f.Run(context.Background(), fq)
	require.NoError(t, err)
	require.Equal(t, []any{}, out)
	require.Empty(t, fq.lastQuery.Text)

	out, err = f.Run(context.Background(), fq, true)
	require.NoError(t, err)
	require.NotEmpty(t, fq.lastQuery.Text)
	require.Equal(t, []any{"should not appear"}, out)
}

func TestRunWrapsDriverError(t *testing.T) {
	t.Parallel()

	driverErr := errors.New("connection reset")
	f := sqlkit.SQL([]string{"SELECT 1"})
	fq := &fakeQueryable{err: driverErr}

	_, err := f.Run(context.Background(), fq)
	require.ErrorIs(t, err, driverErr)
}
