// Package pgtype carries the small set of wrapper types the generator emits
// for SQL types that don't map cleanly onto a Go primitive: arbitrary
// precision numerics, bigint-as-string, and range types.
package pgtype

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Numeric wraps decimal.Decimal for NUMERIC/DECIMAL columns, which pgx
// returns as text by default to avoid float precision loss.
type Numeric struct {
	decimal.Decimal
}

// NumericFromString parses a NUMERIC column's textual representation.
func NumericFromString(s string) (Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Numeric{}, fmt.Errorf("pgtype: parse numeric %q: %w", s, err)
	}

	return Numeric{Decimal: d}, nil
}

// Int8String wraps a BIGINT value kept as its decimal string form, for
// columns whose generated Go type is declared string rather than int64
// (e.g. an identifier column too large to trust to float round-tripping
// once it crosses into JSON).
type Int8String string

// Scan implements database/sql.Scanner.
func (s *Int8String) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = Int8String(v)
	case []byte:
		*s = Int8String(v)
	case int64:
		*s = Int8String(fmt.Sprintf("%d", v))
	default:
		return fmt.Errorf("pgtype: cannot scan %T into Int8String", src)
	}

	return nil
}

// Value implements database/sql/driver.Valuer.
func (s Int8String) Value() (driver.Value, error) {
	return string(s), nil
}

// RangeString wraps a range-typed column (int4range, tstzrange, numrange,
// ...) in its canonical textual form, since the generator does not attempt
// to model range bounds as a Go struct.
type RangeString string

// Scan implements database/sql.Scanner.
func (r *RangeString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = ""
	case string:
		*r = RangeString(v)
	case []byte:
		*r = RangeString(v)
	default:
		return fmt.Errorf("pgtype: cannot scan %T into RangeString", src)
	}

	return nil
}

// Value implements database/sql/driver.Valuer.
func (r RangeString) Value() (driver.Value, error) {
	return string(r), nil
}
