package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStatement(t *testing.T) {
	want := `CREATE TABLE IF NOT EXISTS "Album" (
  "AlbumId" INTEGER PRIMARY KEY,
  "Title" VARCHAR NOT NULL,
  "ArtistId" INTEGER NOT NULL,
  FOREIGN KEY ("ArtistId") REFERENCES "Artist" ("ArtistId")
)`
	assert.Equal(t, want, AlbumTable.CreateStatement())
}

func TestCreateStatementIdentity(t *testing.T) {
	stmt := ProgrammerTable.CreateStatement()
	assert.Contains(t, stmt, `"id" INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY`)
	assert.Contains(t, stmt, `"famous_for" VARCHAR`)
	assert.NotContains(t, stmt, "FOREIGN KEY")
}

func TestTableLookups(t *testing.T) {
	c, ok := TrackTable.Column("Composer")
	require.True(t, ok)
	assert.Equal(t, Text, c.Type)
	assert.Equal(t, `"Composer"`, c.Quoted())

	_, ok = TrackTable.Column("composer")
	assert.False(t, ok, "column lookup is case-sensitive")

	assert.Equal(t, []string{"TrackId"}, TrackTable.PrimaryKeys())
	assert.Equal(t, map[string]ForeignKey{"AlbumId": {Table: "Album", Column: "AlbumId"}}, TrackTable.ForeignKeys())
	assert.Equal(t, []string{"ArtistId", "Name"}, ArtistTable.ColumnNames())
	assert.Panics(t, func() { ArtistTable.MustColumn("Title") })
}

func TestColumnTypeMatches(t *testing.T) {
	assert.True(t, Integer.Matches("integer"))
	assert.True(t, Text.Matches("character varying"))
	assert.True(t, Numeric.Matches("numeric"))
	assert.False(t, Integer.Matches("text"))
	assert.False(t, Text.Matches("numeric"))
}

func TestTablesOrderedParentsFirst(t *testing.T) {
	seen := map[string]bool{}
	for _, tbl := range Tables {
		for _, fk := range tbl.ForeignKeys() {
			assert.True(t, seen[fk.Table], "%s references %s before it is created", tbl.Name, fk.Table)
		}
		seen[tbl.Name] = true
	}
}
