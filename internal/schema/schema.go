package schema

import (
	"fmt"
	"sort"
)

const (
	DefaultSchema = "public"
	SchemaVersion = "1.0"
)

// Database is the catalog facts sqlkitgen's generator actually consumes:
// every table's columns and unique indexes, plus every enum custom type.
// The extractor that populates this struct queries only these facts, plus
// TimescaleDB dimension columns used to drop hypertable-managed indexes;
// schemas, extensions, sequences, views, functions and triggers are not
// extracted. See DESIGN.md for the accounting.
type Database struct {
	Version      string `json:"version"`
	DatabaseName string `json:"database_name"`
	ExtractedAt  string `json:"extracted_at"`

	CustomTypes []CustomType `json:"custom_types,omitempty"`
	Tables      []Table      `json:"tables"`
}

// CustomType is a pg_type entry; only enums (Type == "enum") carry Values,
// and only enums are emitted by the generator.
type CustomType struct {
	Schema string   `json:"schema"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Values []string `json:"values,omitempty"`
}

func (ct *CustomType) QualifiedName() string {
	return QualifiedName(ct.Schema, ct.Name)
}

func (db *Database) Sort() {
	sort.Slice(db.CustomTypes, func(i, j int) bool {
		return db.CustomTypes[i].QualifiedName() < db.CustomTypes[j].QualifiedName()
	})

	sort.Slice(db.Tables, func(i, j int) bool {
		return db.Tables[i].QualifiedName() < db.Tables[j].QualifiedName()
	})

	for i := range db.Tables {
		db.Tables[i].Sort()
	}
}

func QualifiedName(schemaName, name string) string {
	if schemaName == "" {
		schemaName = DefaultSchema
	}

	if name == "" {
		return schemaName
	}

	return fmt.Sprintf("%s.%s", schemaName, name)
}
