package ddl

// ColumnDef is one column of a table definition. Name is unquoted; quoting
// happens when a dialect renders the statement.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string // raw SQL expression
}

// TableDef holds a dotted table name ("schema.table" or "table") and its
// ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
