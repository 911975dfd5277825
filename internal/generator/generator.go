// Package generator emits a static Go description of a PostgreSQL schema:
// one row-shape struct per table (the selectable field set only; no
// insertable, updatable or predicate struct is emitted), a column-name
// slice per table for use with sqlkit.Names/sqlkit.ColumnNames, a
// unique-column-set slice per unique index (for sqlkit.Upsert's conflict
// target), and a string-alias type plus label constants and an ordered
// slice of those constants per enum.
//
// Source is built with github.com/dave/jennifer/jen rather than text
// templates, so the emitted file is always syntactically valid Go
// regardless of how unusual the introspected identifiers are.
package generator

import (
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/sqlkit-dev/sqlkit/internal/ident"
	"github.com/sqlkit-dev/sqlkit/internal/schema"
)

// Options configures a single Generate call.
type Options struct {
	// PackageName is the emitted file's package clause.
	PackageName string
}

// DefaultOptions returns the generator's default options.
func DefaultOptions() *Options {
	return &Options{PackageName: "dbschema"}
}

// Generator emits Go source describing a schema.Database.
type Generator struct {
	Options *Options
}

// New builds a Generator, falling back to DefaultOptions when opts is nil.
func New(opts *Options) *Generator {
	if opts == nil {
		opts = DefaultOptions()
	}

	return &Generator{Options: opts}
}

// Generate renders db as formatted Go source. Tables and enums are emitted
// in the order schema.Database carries them (stable if the caller already
// called db.Sort()).
func (g *Generator) Generate(db *schema.Database) ([]byte, error) {
	if db == nil {
		return nil, newGeneratorError("Generate", "", ErrNilDatabase)
	}

	if g.Options.PackageName == "" {
		return nil, newGeneratorError("Generate", "", ErrEmptyPackage)
	}

	f := jen.NewFile(g.Options.PackageName)
	f.HeaderComment("Code generated by sqlkitgen. DO NOT EDIT.")

	enumTypes := enumTypeNames(db.CustomTypes)

	for _, ct := range db.CustomTypes {
		if ct.Type != "enum" {
			continue
		}

		emitEnum(f, ct)
	}

	for _, table := range db.Tables {
		emitTable(f, table, enumTypes)
	}

	return []byte(f.GoString()), nil
}

// enumTypeNames maps a lowercased, unqualified enum type name to its
// generated Go type name (PascalCase), so column type resolution can spot
// enum-typed columns by their udt name.
func enumTypeNames(customTypes []schema.CustomType) map[string]string {
	out := make(map[string]string, len(customTypes))

	for _, ct := range customTypes {
		if ct.Type != "enum" {
			continue
		}

		out[strings.ToLower(ct.Name)] = ident.PascalCase(ct.Name)
	}

	return out
}

func emitEnum(f *jen.File, ct schema.CustomType) {
	typeName := ident.PascalCase(ct.Name)

	f.Commentf("%s is the generated type for the %s enum.", typeName, ct.Name)
	f.Type().Id(typeName).String()

	if len(ct.Values) == 0 {
		return
	}

	f.Const().DefsFunc(func(g *jen.Group) {
		for _, label := range ct.Values {
			constName := typeName + ident.PascalCase(label)
			g.Id(constName).Id(typeName).Op("=").Lit(label)
		}
	})

	f.Commentf("%sValues lists every %s label, in catalog order.", typeName, ct.Name)
	f.Var().Id(typeName + "Values").Op("=").Index().Id(typeName).ValuesFunc(func(g *jen.Group) {
		for _, label := range ct.Values {
			g.Id(typeName + ident.PascalCase(label))
		}
	})
}

func emitTable(f *jen.File, table schema.Table, enumTypes map[string]string) {
	typeName := ident.PascalCase(table.Name)

	emitColumnNames(f, typeName, table)
	emitRowStruct(f, typeName, table, enumTypes)
	emitUniqueIndexes(f, typeName, table)
}

func emitColumnNames(f *jen.File, typeName string, table schema.Table) {
	cols := make([]jen.Code, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = jen.Lit(c.Name)
	}

	f.Commentf("%sColumns lists every column of %s, in catalog order.", typeName, table.QualifiedName())
	f.Var().Id(typeName + "Columns").Op("=").Index().String().Values(cols...)
}

func emitRowStruct(f *jen.File, typeName string, table schema.Table, enumTypes map[string]string) {
	fields := make([]jen.Code, len(table.Columns))

	for i, c := range table.Columns {
		enumType := ""
		if gt, ok := enumTypes[strings.ToLower(baseTypeName(c.DataType))]; ok {
			enumType = gt
		}

		gt := mapColumnType(c.DataType, c.IsArray, enumType)

		fieldName := ident.PascalCase(c.Name)
		fields[i] = jen.Id(fieldName).Add(gt.Selectable.code()).Tag(map[string]string{"json": c.Name})
	}

	f.Commentf("%sRow is the selectable shape of %s.", typeName, table.QualifiedName())
	f.Type().Id(typeName + "Row").Struct(fields...)
}

// baseTypeName strips a leading array marker ("_typename", the udt_name
// convention for array columns) so enum lookup matches the element type.
func baseTypeName(dataType string) string {
	return strings.TrimPrefix(dataType, "_")
}

func emitUniqueIndexes(f *jen.File, typeName string, table schema.Table) {
	uniques := make([]schema.Index, 0, len(table.Indexes))

	for _, idx := range table.Indexes {
		if idx.IsUnique {
			uniques = append(uniques, idx)
		}
	}

	sort.Slice(uniques, func(i, j int) bool { return uniques[i].Name < uniques[j].Name })

	for _, idx := range uniques {
		varName := typeName + ident.PascalCase(idx.Name) + "UniqueColumns"

		cols := make([]jen.Code, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = jen.Lit(c)
		}

		f.Commentf("%s is the conflict target for sqlkit.Upsert against %s.", varName, idx.Name)
		f.Var().Id(varName).Op("=").Index().String().Values(cols...)
	}
}
