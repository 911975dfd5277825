package sqlkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

func TestUpsertDefaultsToUpdatingAllInsertedColumns(t *testing.T) {
	t.Parallel()

	f := sqlkit.Upsert("widgets", map[string]any{"id": 1, "name": "gizmo"}, sqlkit.OnColumns("id"))

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t,
		`INSERT INTO "widgets" ("id", "name") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET ("id", "name") = ROW(EXCLUDED."id", EXCLUDED."name") RETURNING to_jsonb("widgets".*) || jsonb_build_object('$action', CASE xmax WHEN 0 THEN 'INSERT' ELSE 'UPDATE' END) AS result`,
		q.Text,
	)
	require.Equal(t, []any{1, "gizmo"}, q.Values)
}

func TestUpsertOverridesUpdateValue(t *testing.T) {
	t.Parallel()

	f := sqlkit.Upsert("widgets", map[string]any{"id": 1, "hits": 1}, sqlkit.OnColumns("id"),
		sqlkit.UpsertOptions{
			UpdateValues: map[string]any{"hits": sqlkit.Lit(`"widgets"."hits" + 1`)},
			ReportAction: "suppress",
		},
	)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Equal(t,
		`INSERT INTO "widgets" ("hits", "id") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET ("hits", "id") = ROW("widgets"."hits" + 1, EXCLUDED."id") RETURNING to_jsonb("widgets".*) AS result`,
		q.Text,
	)
	require.Equal(t, []any{1, 1}, q.Values)
}

func TestUpsertNoNullUpdateColumnsUsesCaseWhen(t *testing.T) {
	t.Parallel()

	f := sqlkit.Upsert("widgets", map[string]any{"id": 1, "name": "gizmo"}, sqlkit.OnColumns("id"),
		sqlkit.UpsertOptions{NoNullUpdateColumns: []string{"name"}, ReportAction: "suppress"},
	)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text,
		`CASE WHEN EXCLUDED."name" IS NULL THEN "widgets"."name" ELSE EXCLUDED."name" END`,
	)
}

func TestUpsertEmptyArrayDelegatesToInsertNoop(t *testing.T) {
	t.Parallel()

	f := sqlkit.Upsert("widgets", []map[string]any{}, sqlkit.OnColumns("id"))
	require.True(t, f.IsNoop())
}

func TestUpsertOnConstraint(t *testing.T) {
	t.Parallel()

	f := sqlkit.Upsert("widgets", map[string]any{"id": 1}, sqlkit.OnConstraint("widgets_pkey"),
		sqlkit.UpsertOptions{ReportAction: "suppress"},
	)

	q, err := f.Compile()
	require.NoError(t, err)
	require.Contains(t, q.Text, `ON CONFLICT ON CONSTRAINT "widgets_pkey"`)
}
