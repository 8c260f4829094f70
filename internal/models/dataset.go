package models

// ColumnInfo describes a single column of a queryable table.
type ColumnInfo struct {
	Name string
	Type string
}

// TableInfo describes a queryable table discovered through introspection.
type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}
