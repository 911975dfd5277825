package generator

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

const (
	pkgDecimal = "github.com/shopspring/decimal"
	pkgPgtype  = "github.com/sqlkit-dev/sqlkit/internal/pgtype"
	pkgJSON    = "encoding/json"
	pkgTime    = "time"
)

// qualType names a Go type either local to the generated file (Pkg == "")
// or qualified against an import path, optionally as a slice of that type.
type qualType struct {
	Pkg   string
	Name  string
	Array bool
}

func (q qualType) code() jen.Code {
	elem := jen.Id(q.Name)
	if q.Pkg != "" {
		elem = jen.Qual(q.Pkg, q.Name)
	}

	if q.Array {
		return jen.Index().Add(elem)
	}

	return elem
}

// goType is the column's type mapping: Selectable is the type scanned back
// out of a row; Insertable is the type accepted when building an
// INSERT/UPSERT value map.
type goType struct {
	Selectable qualType
	Insertable qualType
}

// mapColumnType maps a PostgreSQL data type name (as reported by
// information_schema.columns.data_type / udt_name) to its generated Go
// types, per the table in SPEC_FULL.md §6. enumType is the generated Go
// type name to use when dataType names a known enum.
func mapColumnType(dataType string, isArray bool, enumType string) goType {
	base := mapScalarType(dataType, enumType)
	if !isArray {
		return base
	}

	base.Selectable.Array = true
	base.Insertable.Array = true

	return base
}

func mapScalarType(dataType string, enumType string) goType {
	if enumType != "" {
		t := qualType{Name: enumType}
		return goType{Selectable: t, Insertable: t}
	}

	switch strings.ToLower(dataType) {
	case "money":
		return goType{Selectable: qualType{Name: "string"}, Insertable: qualType{Name: "string"}}
	case "int8", "bigint":
		return goType{
			Selectable: qualType{Pkg: pkgPgtype, Name: "Int8String"},
			Insertable: qualType{Name: "int64"},
		}
	case "numeric", "decimal":
		return goType{
			Selectable: qualType{Pkg: pkgPgtype, Name: "Numeric"},
			Insertable: qualType{Pkg: pkgDecimal, Name: "Decimal"},
		}
	case "bytea":
		return goType{Selectable: qualType{Name: "[]byte"}, Insertable: qualType{Name: "[]byte"}}
	case "date", "timestamp", "timestamp without time zone", "timestamptz", "timestamp with time zone":
		t := qualType{Pkg: pkgTime, Name: "Time"}
		return goType{Selectable: t, Insertable: t}
	case "time", "time without time zone", "timetz", "time with time zone":
		return goType{Selectable: qualType{Name: "string"}, Insertable: qualType{Name: "string"}}
	case "int4range", "int8range", "numrange", "tsrange", "tstzrange", "daterange":
		t := qualType{Pkg: pkgPgtype, Name: "RangeString"}
		return goType{Selectable: t, Insertable: t}
	case "interval", "character varying", "varchar", "character", "char", "text", "citext", "uuid", "inet", "name":
		return goType{Selectable: qualType{Name: "string"}, Insertable: qualType{Name: "string"}}
	case "int2", "smallint":
		return goType{Selectable: qualType{Name: "int16"}, Insertable: qualType{Name: "int16"}}
	case "int4", "integer", "oid":
		return goType{Selectable: qualType{Name: "int32"}, Insertable: qualType{Name: "int32"}}
	case "float4", "real":
		return goType{Selectable: qualType{Name: "float32"}, Insertable: qualType{Name: "float32"}}
	case "float8", "double precision":
		return goType{Selectable: qualType{Name: "float64"}, Insertable: qualType{Name: "float64"}}
	case "bool", "boolean":
		return goType{Selectable: qualType{Name: "bool"}, Insertable: qualType{Name: "bool"}}
	case "json", "jsonb":
		t := qualType{Pkg: pkgJSON, Name: "RawMessage"}
		return goType{Selectable: t, Insertable: t}
	default:
		return goType{Selectable: qualType{Name: "any"}, Insertable: qualType{Name: "any"}}
	}
}
