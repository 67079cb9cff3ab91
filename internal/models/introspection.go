package models

// ColumnInfo and ForeignKeyInfo describe what information_schema reports
// for a live table.
type ColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
}

type ForeignKeyInfo struct {
	ConstraintName string
	FromColumn     string
	ToTable        string
	ToColumn       string
}
