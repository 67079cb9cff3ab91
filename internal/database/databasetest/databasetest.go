// Package databasetest starts a throwaway PostgreSQL container with the
// schema migrated and a small slice of the chinook catalog loaded.
package databasetest

import (
	"context"
	"testing"

	"chinook_crud/internal/config"
	"chinook_crud/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:16-alpine"

const (
	QueenArtistID = 51
	MissingID     = -1
)

// QueenTrackIDs are the fixture tracks whose Composer is exactly "Queen".
var QueenTrackIDs = []int{2254, 2255, 2256}

// QueenAlbumIDs are the fixture albums of artist 51.
var QueenAlbumIDs = []int{36, 185, 186}

const fixture = `
INSERT INTO "Artist" ("ArtistId", "Name") VALUES
  (1, 'AC/DC'),
  (50, 'Metallica'),
  (51, 'Queen');

INSERT INTO "Album" ("AlbumId", "Title", "ArtistId") VALUES
  (1, 'For Those About To Rock We Salute You', 1),
  (36, 'Greatest Hits II', 51),
  (185, 'Greatest Hits I', 51),
  (186, 'News Of The World', 51);

INSERT INTO "Track" ("TrackId", "Name", "AlbumId", "MediaTypeId", "GenreId", "Composer", "Milliseconds", "Bytes", "UnitPrice") VALUES
  (1, 'For Those About To Rock (We Salute You)', 1, 1, 1, 'Angus Young, Malcolm Young, Brian Johnson', 343719, 11170334, 0.99),
  (2254, 'Bohemian Rhapsody', 185, 1, 1, 'Queen', 358948, 11619868, 0.99),
  (2255, 'Somebody To Love', 185, 1, 1, 'Queen', 297351, 9650520, 0.99),
  (2256, 'Fat Bottomed Girls', 185, 1, 1, 'Queen', 204695, 6630041, 0.99),
  (2257, 'We Will Rock You', 186, 1, 1, 'Mercury, Freddie', 122880, 4026955, 0.99),
  (2258, 'Spread Your Wings', 186, 1, 1, NULL, 275356, 8936992, 0.99),
  (3000, 'Kind Hearted Woman Blues', 1, 1, 6, 'Robert Johnson', 174001, 5711111, 1.99);
`

// Start runs a PostgreSQL container for the lifetime of the test, migrates
// it and loads the catalog fixture. Integration tests are skipped under
// -short.
func Start(t testing.TB) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("chinook"),
		postgres.WithUsername("chinook"),
		postgres.WithPassword("chinook"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		Host:      host,
		Port:      port.Port(),
		User:      "chinook",
		Password:  "chinook",
		Database:  "chinook",
		SSLMode:   "disable",
		LogLevel:  "info",
		LogFormat: "text",
	}

	conn := Conn(t, cfg)
	require.NoError(t, database.RunMigrations(ctx, conn))
	_, err = conn.Exec(ctx, fixture)
	require.NoError(t, err)

	return cfg
}

// Conn opens a connection closed when the test finishes.
func Conn(t testing.TB, cfg *config.Config) *pgx.Conn {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(ctx) })
	return conn
}

// ResetProgrammers empties the Programmer table and restarts its identity.
func ResetProgrammers(t testing.TB, conn *pgx.Conn) {
	t.Helper()
	_, err := conn.Exec(context.Background(), `TRUNCATE "Programmer" RESTART IDENTITY`)
	require.NoError(t, err)
}
