package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatement(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      error
	}{
		{"select", `SELECT * FROM "Artist" WHERE "ArtistId" = $1`, nil},
		{"trailing semicolon", `SELECT 1;`, nil},
		{"delete with where", `DELETE FROM "Programmer" WHERE id = $1`, nil},
		{"multiline where", "delete from \"Programmer\"\nwhere id = $1", nil},
		{"empty", "  ", ErrEmptyStatement},
		{"only comment", "-- nothing here", ErrEmptyStatement},
		{"two statements", `SELECT 1; SELECT 2`, ErrMultipleStatements},
		{"delete everything", `DELETE FROM "Programmer"`, ErrUnguardedDelete},
		{"where hidden in comment", `DELETE FROM "Programmer" -- WHERE id = 1`, ErrUnguardedDelete},
		{"truncate", `truncate "Track"`, ErrStatementNotAllowed},
		{"drop database", `DROP DATABASE chinook`, ErrStatementNotAllowed},
		{"drop table", `drop table "Album"`, ErrStatementNotAllowed},
		{"where directly before parenthesis", `DELETE FROM "Programmer" WHERE(id = 1)`, nil},
		{"semicolon inside literal", `SELECT * FROM "Artist" WHERE "Name" = 'a;b'`, nil},
		{"keyword inside literal", `SELECT 'DROP TABLE x; TRUNCATE y'`, nil},
		{"escaped quote in literal", `SELECT * FROM "Artist" WHERE "Name" = 'it''s; fine'`, nil},
		{"semicolon inside identifier", `SELECT * FROM "odd;name"`, nil},
		{"comment marker inside literal", `SELECT '--' ; DROP TABLE "Album"`, ErrMultipleStatements},
		{"delete in cte", `WITH d AS (DELETE FROM "Programmer" RETURNING *) SELECT * FROM d`, ErrUnguardedDelete},
		{"delete in cte with outer where", `WITH d AS (DELETE FROM "Programmer" RETURNING *) SELECT * FROM d WHERE id = 1`, ErrUnguardedDelete},
		{"guarded delete in cte", `WITH d AS (DELETE FROM "Programmer" WHERE id = $1 RETURNING *) SELECT * FROM d`, nil},
		{"where only in subquery", `DELETE FROM "Programmer" USING (SELECT id FROM "Programmer" WHERE id = 1) s`, ErrUnguardedDelete},
		{"where as part of a word", `DELETE FROM "Programmer" RETURNING somewhere`, ErrUnguardedDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatement(tt.statement)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
