package generator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/internal/generator"
	"github.com/sqlkit-dev/sqlkit/internal/schema"
)

func TestGenerateEmitsEnumTypeAndConstants(t *testing.T) {
	t.Parallel()

	db := &schema.Database{
		CustomTypes: []schema.CustomType{
			{Schema: "public", Name: "order_status", Type: "enum", Values: []string{"pending", "shipped"}},
		},
	}

	src, err := generator.New(nil).Generate(db)
	require.NoError(t, err)

	out := string(src)
	require.Contains(t, out, "type OrderStatus string")
	require.Contains(t, out, `OrderStatusPending OrderStatus = "pending"`)
	require.Contains(t, out, `OrderStatusShipped OrderStatus = "shipped"`)
}

func TestGenerateEmitsTableRowAndColumns(t *testing.T) {
	t.Parallel()

	db := &schema.Database{
		Tables: []schema.Table{
			{
				Schema: "public",
				Name:   "users",
				Columns: []schema.Column{
					{Name: "id", DataType: "int4", Position: 1},
					{Name: "email", DataType: "text", Position: 2},
					{Name: "created_at", DataType: "timestamptz", Position: 3},
				},
				Indexes: []schema.Index{
					{Name: "users_email_key", IsUnique: true, Columns: []string{"email"}},
				},
			},
		},
	}

	src, err := generator.New(&generator.Options{PackageName: "dbschema"}).Generate(db)
	require.NoError(t, err)

	out := string(src)
	require.Contains(t, out, "package dbschema")
	require.Contains(t, out, `UsersColumns = []string{"id", "email", "created_at"}`)
	require.Contains(t, out, "type UsersRow struct")
	require.Contains(t, out, `Id        int32     `+"`"+`json:"id"`+"`")
	require.Contains(t, out, "time.Time")
	require.Contains(t, out, "UsersUsersEmailKeyUniqueColumns")
}

func TestGenerateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	_, err := generator.New(nil).Generate(nil)
	require.ErrorIs(t, err, generator.ErrNilDatabase)
}

func TestGenerateRejectsEmptyPackageName(t *testing.T) {
	t.Parallel()

	_, err := generator.New(&generator.Options{PackageName: ""}).Generate(&schema.Database{})
	require.ErrorIs(t, err, generator.ErrEmptyPackage)
}
