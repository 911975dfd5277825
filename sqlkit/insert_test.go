package sqlkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

func TestInsertOneSortsColumnsAndBuildsReturning(t *testing.T) {
	t.Parallel()

	f := sqlkit.Insert("users", map[string]any{"name": "ada", "id": 1})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t,
		`INSERT INTO "users" ("id", "name") VALUES ($1, $2) RETURNING to_jsonb("users".*) AS result`,
		q.Text,
	)
	require.Equal(t, []any{1, "ada"}, q.Values)
}

func TestInsertManyUnionsKeysAndFillsDefault(t *testing.T) {
	t.Parallel()

	f := sqlkit.Insert("users", []map[string]any{
		{"id": 1, "name": "ada"},
		{"id": 2},
	})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t,
		`INSERT INTO "users" ("id", "name") VALUES ($1, $2), ($3, DEFAULT) RETURNING to_jsonb("users".*) AS result`,
		q.Text,
	)
	require.Equal(t, []any{1, "ada", 2}, q.Values)
}

func TestInsertEmptyArrayIsNoop(t *testing.T) {
	t.Parallel()

	f := sqlkit.Insert("users", []map[string]any{})
	require.True(t, f.IsNoop())
}

func TestInsertWithReturningColumns(t *testing.T) {
	t.Parallel()

	f := sqlkit.Insert("users", map[string]any{"id": 1}, sqlkit.ReturningOptions{Columns: []string{"id"}})

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t,
		`INSERT INTO "users" ("id") VALUES ($1) RETURNING jsonb_build_object($2::text, "users"."id") AS result`,
		q.Text,
	)
	require.Equal(t, []any{1, "id"}, q.Values)
}

func TestInsertRejectsUnsupportedRowType(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		sqlkit.Insert("users", "not a map")
	})
}
