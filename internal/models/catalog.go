package models

import (
	"github.com/shopspring/decimal"
)

// Artist, Album and Track mirror the chinook sample catalog. Column names
// are PascalCase in the database, so every field names its column
// explicitly for gorm (gorm tag) and for sqlx/pgx (db tag).

type Artist struct {
	ArtistID int    `gorm:"column:ArtistId;primaryKey" db:"ArtistId"`
	Name     string `gorm:"column:Name" db:"Name"`
}

func (Artist) TableName() string {
	return ArtistTable.Name
}

func (a Artist) Fields() []any {
	return []any{a.ArtistID, a.Name}
}

// ArtistName is the projection of Artist onto its Name column.
type ArtistName struct {
	Name string `gorm:"column:Name" db:"Name"`
}

func (ArtistName) TableName() string {
	return ArtistTable.Name
}

func (a ArtistName) Fields() []any {
	return []any{a.Name}
}

type Album struct {
	AlbumID  int    `gorm:"column:AlbumId;primaryKey" db:"AlbumId"`
	Title    string `gorm:"column:Title" db:"Title"`
	ArtistID int    `gorm:"column:ArtistId" db:"ArtistId"`
}

func (Album) TableName() string {
	return AlbumTable.Name
}

func (a Album) Fields() []any {
	return []any{a.AlbumID, a.Title, a.ArtistID}
}

type Track struct {
	TrackID      int             `gorm:"column:TrackId;primaryKey" db:"TrackId"`
	Name         string          `gorm:"column:Name" db:"Name"`
	AlbumID      int             `gorm:"column:AlbumId" db:"AlbumId"`
	MediaTypeID  int             `gorm:"column:MediaTypeId" db:"MediaTypeId"`
	GenreID      int             `gorm:"column:GenreId" db:"GenreId"`
	Composer     *string         `gorm:"column:Composer" db:"Composer"`
	Milliseconds int             `gorm:"column:Milliseconds" db:"Milliseconds"`
	Bytes        int             `gorm:"column:Bytes" db:"Bytes"`
	UnitPrice    decimal.Decimal `gorm:"column:UnitPrice;type:numeric(10,2)" db:"UnitPrice"`
}

func (Track) TableName() string {
	return TrackTable.Name
}

func (t Track) Fields() []any {
	return []any{
		t.TrackID,
		t.Name,
		t.AlbumID,
		t.MediaTypeID,
		t.GenreID,
		t.Composer,
		t.Milliseconds,
		t.Bytes,
		t.UnitPrice,
	}
}

// Record is an untyped row as fetched by a driver-level cursor, values in
// column order.
type Record []any

func (r Record) Fields() []any {
	return r
}
