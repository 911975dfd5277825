package schema

// Index is a pg_indexes entry trimmed to what a conflict target needs:
// its name and column list, and whether it enforces uniqueness (which,
// in PostgreSQL, a primary key's backing index always does). The
// teacher's index model additionally carried index type, partial-index
// predicates, included columns, tablespace, and storage parameters;
// sqlkitgen's generator only ever emits a unique index's column list as
// an sqlkit.Upsert conflict target, so none of that survives here.
type Index struct {
	Name     string   `json:"name"`
	Columns  []string `json:"columns"`
	IsUnique bool     `json:"is_unique"`
}
