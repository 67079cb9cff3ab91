package models

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ColumnType is the semantic type of a column, independent of any driver.
type ColumnType int

const (
	Integer ColumnType = iota
	Text
	Numeric
)

// SQLType is the PostgreSQL type used when the table is created here.
func (t ColumnType) SQLType() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Numeric:
		return "NUMERIC(10,2)"
	default:
		return "VARCHAR"
	}
}

// Matches reports whether an information_schema data_type is compatible.
func (t ColumnType) Matches(dataType string) bool {
	switch t {
	case Integer:
		return dataType == "integer" || dataType == "bigint" || dataType == "smallint"
	case Numeric:
		return dataType == "numeric" || dataType == "double precision" || dataType == "real"
	default:
		return dataType == "character varying" || dataType == "text" || dataType == "character"
	}
}

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Numeric:
		return "numeric"
	default:
		return "text"
	}
}

type ForeignKey struct {
	Table  string
	Column string
}

type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	Identity   bool
	Nullable   bool
	References *ForeignKey
}

// Quoted is the column name as a case-preserving SQL identifier.
func (c Column) Quoted() string {
	return pgx.Identifier{c.Name}.Sanitize()
}

type Table struct {
	Name    string
	Columns []Column
}

// Quoted is the table name as a case-preserving SQL identifier.
func (t Table) Quoted() string {
	return pgx.Identifier{t.Name}.Sanitize()
}

// Column looks a column up by its exact (case-sensitive) name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// MustColumn is Column for names fixed at compile time; an unknown name is
// a programming error.
func (t Table) MustColumn(name string) Column {
	c, ok := t.Column(name)
	if !ok {
		panic(fmt.Sprintf("table %q has no column %q", t.Name, name))
	}
	return c
}

func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

func (t Table) PrimaryKeys() []string {
	var pks []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	return pks
}

// ForeignKeys maps a local column name to the key it references.
func (t Table) ForeignKeys() map[string]ForeignKey {
	fks := make(map[string]ForeignKey)
	for _, c := range t.Columns {
		if c.References != nil {
			fks[c.Name] = *c.References
		}
	}
	return fks
}

// CreateStatement renders an idempotent CREATE TABLE for the descriptor.
func (t Table) CreateStatement() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Quoted())

	defs := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		def := fmt.Sprintf("  %s %s", col.Quoted(), col.Type.SQLType())
		if col.Identity {
			def += " GENERATED BY DEFAULT AS IDENTITY"
		}
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		} else if !col.Nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	for _, col := range t.Columns {
		if col.References == nil {
			continue
		}
		defs = append(defs, fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s (%s)",
			col.Quoted(),
			pgx.Identifier{col.References.Table}.Sanitize(),
			pgx.Identifier{col.References.Column}.Sanitize(),
		))
	}

	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

var ProgrammerTable = Table{
	Name: "Programmer",
	Columns: []Column{
		{Name: "id", Type: Integer, PrimaryKey: true, Identity: true},
		{Name: "first_name", Type: Text, Nullable: true},
		{Name: "last_name", Type: Text, Nullable: true},
		{Name: "gender", Type: Text, Nullable: true},
		{Name: "nationality", Type: Text, Nullable: true},
		{Name: "famous_for", Type: Text, Nullable: true},
	},
}

var ArtistTable = Table{
	Name: "Artist",
	Columns: []Column{
		{Name: "ArtistId", Type: Integer, PrimaryKey: true},
		{Name: "Name", Type: Text, Nullable: true},
	},
}

var AlbumTable = Table{
	Name: "Album",
	Columns: []Column{
		{Name: "AlbumId", Type: Integer, PrimaryKey: true},
		{Name: "Title", Type: Text},
		{Name: "ArtistId", Type: Integer, References: &ForeignKey{Table: "Artist", Column: "ArtistId"}},
	},
}

// TrackTable leaves MediaTypeId and GenreId as plain integers: the
// MediaType and Genre tables are not modelled.
var TrackTable = Table{
	Name: "Track",
	Columns: []Column{
		{Name: "TrackId", Type: Integer, PrimaryKey: true},
		{Name: "Name", Type: Text},
		{Name: "AlbumId", Type: Integer, Nullable: true, References: &ForeignKey{Table: "Album", Column: "AlbumId"}},
		{Name: "MediaTypeId", Type: Integer},
		{Name: "GenreId", Type: Integer, Nullable: true},
		{Name: "Composer", Type: Text, Nullable: true},
		{Name: "Milliseconds", Type: Integer},
		{Name: "Bytes", Type: Integer, Nullable: true},
		{Name: "UnitPrice", Type: Numeric},
	},
}

// Tables lists every descriptor, parents before children.
var Tables = []Table{ArtistTable, AlbumTable, TrackTable, ProgrammerTable}
