package sqlkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

func TestSelectWrapsInnerQueryInJSONAgg(t *testing.T) {
	t.Parallel()

	f := sqlkit.Select("users", sqlkit.PredicateMap{"active": true})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, "coalesce(jsonb_agg(result), '[]')")
	require.Contains(t, q.Text, `WHERE ("active" = $1)`)
	require.Equal(t, []any{true}, q.Values)
}

func TestSelectOneForcesLimitOne(t *testing.T) {
	t.Parallel()

	f := sqlkit.SelectOne("users", sqlkit.All)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, "LIMIT $1")
	require.Contains(t, q.Text, "WHERE TRUE")
}

func TestSelectExactlyOneRaisesNotExactlyOneWhenEmpty(t *testing.T) {
	t.Parallel()

	f := sqlkit.SelectExactlyOne("users", sqlkit.PredicateMap{"id": 404})
	fq := &fakeQueryable{result: sqlkit.QueryResult{}}

	_, err := f.Run(context.Background(), fq)
	require.Error(t, err)
	require.ErrorIs(t, err, sqlkit.ErrNotExactlyOne)

	var notOne *sqlkit.NotExactlyOneError
	require.ErrorAs(t, err, &notOne)
	require.NotEmpty(t, notOne.Query.Text)
}

func TestSelectOrderByAscDefaultDirection(t *testing.T) {
	t.Parallel()

	f := sqlkit.Select("users", sqlkit.All, sqlkit.SelectOptions{
		Order: []sqlkit.OrderSpec{{By: "createdAt"}},
	})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, `ORDER BY "created_at" ASC`)
}

func TestSelectOrderWithNullsLast(t *testing.T) {
	t.Parallel()

	f := sqlkit.Select("users", sqlkit.All, sqlkit.SelectOptions{
		Order: []sqlkit.OrderSpec{{By: "name", Direction: sqlkit.Desc, Nulls: sqlkit.NullsLast}},
	})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, `ORDER BY "name" DESC NULLS LAST`)
}

func TestSelectLateralMapJoinsAndMergesResult(t *testing.T) {
	t.Parallel()

	posts := sqlkit.Select("posts", sqlkit.PredicateMap{"authorId": sqlkit.Parent("id")})

	f := sqlkit.Select("users", sqlkit.All, sqlkit.SelectOptions{
		Lateral: sqlkit.LateralMap(map[string]*sqlkit.Fragment{"posts": posts}),
	})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, `LEFT JOIN LATERAL (`)
	require.Contains(t, q.Text, `) AS "lateral_posts" ON true`)
	require.Contains(t, q.Text, `'posts', "lateral_posts"."result"`)
	require.Contains(t, q.Text, `"users"."id"`)
}

func TestSelectDistinctOnColumns(t *testing.T) {
	t.Parallel()

	f := sqlkit.Select("events", sqlkit.All, sqlkit.SelectOptions{Distinct: []string{"userId", "kind"}})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, `DISTINCT ON ("user_id", "kind")`)
}

func TestCountDefaultsToStar(t *testing.T) {
	t.Parallel()

	f := sqlkit.Count("users", sqlkit.All)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, "count(*)")
}

func TestCountTransformParsesStringifiedAggregate(t *testing.T) {
	t.Parallel()

	f := sqlkit.Count("users", sqlkit.All)
	fq := &fakeQueryable{result: sqlkit.QueryResult{Rows: []map[string]any{{"result": "42"}}}}

	out, err := f.Run(context.Background(), fq)
	require.NoError(t, err)
	require.InEpsilon(t, 42.0, out.(float64), 0.0001)
}
