package schema

import "sort"

// Table is a base table's generator-relevant shape: its columns (for the
// row struct and column-name slice) and its unique indexes (for upsert
// conflict targets). The teacher's table model additionally carried
// constraints, comments, ownership, tablespace, and partition metadata;
// sqlkitgen's generator never reads any of that, so it isn't extracted.
type Table struct {
	Schema  string   `json:"schema"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Indexes []Index  `json:"indexes,omitempty"`
}

// Column is one row-struct field's source: its name, its catalog data
// type (fed to the generator's type-mapping table), whether it is an
// array column, and its ordinal position (for stable field ordering).
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Position int    `json:"position"`
	IsArray  bool   `json:"is_array,omitempty"`
}

func (t *Table) QualifiedName() string {
	return QualifiedName(t.Schema, t.Name)
}

func (t *Table) Sort() {
	sort.Slice(t.Columns, func(i, j int) bool {
		return t.Columns[i].Position < t.Columns[j].Position
	})

	sort.Slice(t.Indexes, func(i, j int) bool {
		return t.Indexes[i].Name < t.Indexes[j].Name
	})
}
