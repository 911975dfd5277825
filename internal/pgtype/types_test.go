package pgtype_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sqlkit-dev/sqlkit/internal/pgtype"
)

func TestNumericFromString(t *testing.T) {
	t.Parallel()

	n, err := pgtype.NumericFromString("19.99")
	require.NoError(t, err)
	require.True(t, n.Decimal.Equal(decimal.RequireFromString("19.99")))
}

func TestNumericFromStringRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := pgtype.NumericFromString("not-a-number")
	require.Error(t, err)
}

func TestNumericScanAndValue(t *testing.T) {
	t.Parallel()

	var n pgtype.Numeric
	require.NoError(t, n.Scan("42.5"))
	require.True(t, n.Decimal.Equal(decimal.RequireFromString("42.5")))

	v, err := n.Value()
	require.NoError(t, err)
	require.Equal(t, "42.5", v)
}

func TestInt8StringScan(t *testing.T) {
	t.Parallel()

	var s pgtype.Int8String

	require.NoError(t, s.Scan("9223372036854775807"))
	require.Equal(t, pgtype.Int8String("9223372036854775807"), s)

	require.NoError(t, s.Scan([]byte("123")))
	require.Equal(t, pgtype.Int8String("123"), s)

	require.NoError(t, s.Scan(int64(7)))
	require.Equal(t, pgtype.Int8String("7"), s)

	require.NoError(t, s.Scan(nil))
	require.Equal(t, pgtype.Int8String(""), s)

	require.Error(t, s.Scan(3.14))
}

func TestInt8StringValue(t *testing.T) {
	t.Parallel()

	s := pgtype.Int8String("123")

	v, err := s.Value()
	require.NoError(t, err)
	require.Equal(t, "123", v)
}

func TestRangeStringScan(t *testing.T) {
	t.Parallel()

	var r pgtype.RangeString

	require.NoError(t, r.Scan("[1,10)"))
	require.Equal(t, pgtype.RangeString("[1,10)"), r)

	require.NoError(t, r.Scan([]byte("empty")))
	require.Equal(t, pgtype.RangeString("empty"), r)

	require.NoError(t, r.Scan(nil))
	require.Equal(t, pgtype.RangeString(""), r)

	require.Error(t, r.Scan(7))
}

func TestRangeStringValue(t *testing.T) {
	t.Parallel()

	r := pgtype.RangeString("[1,10)")

	v, err := r.Value()
	require.NoError(t, err)
	require.Equal(t, "[1,10)", v)
}
