package repositories

import (
	"context"

	"chinook_crud/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Identifiers are double-quoted: the chinook tables use mixed case.
const (
	selectAllArtists       = `SELECT * FROM "Artist"`
	selectArtistNames      = `SELECT "Name" FROM "Artist"`
	selectArtistByName     = `SELECT * FROM "Artist" WHERE "Name" = $1`
	selectArtistByID       = `SELECT * FROM "Artist" WHERE "ArtistId" = $1`
	selectAllAlbums        = `SELECT * FROM "Album"`
	selectAlbumsByArtist   = `SELECT * FROM "Album" WHERE "ArtistId" = $1`
	selectTracksByComposer = `SELECT * FROM "Track" WHERE "Composer" = $1`
)

// RawCatalogRepository runs literal SQL over pgx and maps rows by column
// name onto the catalog records.
type RawCatalogRepository struct {
	raw *RawRepository
}

func NewRawCatalogRepository(conn Querier) *RawCatalogRepository {
	return &RawCatalogRepository{raw: NewRawRepository(conn)}
}

func (r *RawCatalogRepository) AllArtists(ctx context.Context) ([]models.Artist, error) {
	return collect[models.Artist](ctx, r.raw, selectAllArtists)
}

func (r *RawCatalogRepository) ArtistNames(ctx context.Context) ([]models.ArtistName, error) {
	return collect[models.ArtistName](ctx, r.raw, selectArtistNames)
}

func (r *RawCatalogRepository) ArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	return collectOne[models.Artist](ctx, r.raw, selectArtistByName, name)
}

func (r *RawCatalogRepository) ArtistByID(ctx context.Context, id int) (*models.Artist, error) {
	return collectOne[models.Artist](ctx, r.raw, selectArtistByID, id)
}

func (r *RawCatalogRepository) AllAlbums(ctx context.Context) ([]models.Album, error) {
	return collect[models.Album](ctx, r.raw, selectAllAlbums)
}

func (r *RawCatalogRepository) AlbumsByArtist(ctx context.Context, artistID int) ([]models.Album, error) {
	return collect[models.Album](ctx, r.raw, selectAlbumsByArtist, artistID)
}

func (r *RawCatalogRepository) TracksByComposer(ctx context.Context, composer string) ([]models.Track, error) {
	return collect[models.Track](ctx, r.raw, selectTracksByComposer, composer)
}

func collect[T any](ctx context.Context, raw *RawRepository, query string, args ...any) ([]T, error) {
	cur, err := raw.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	rows, err := pgx.CollectRows(cur.rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read rows")
	}
	return rows, nil
}

// collectOne returns nil, nil when no row matches.
func collectOne[T any](ctx context.Context, raw *RawRepository, query string, args ...any) (*T, error) {
	cur, err := raw.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	row, err := pgx.CollectOneRow(cur.rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read row")
	}
	return row, nil
}
