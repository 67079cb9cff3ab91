package services

import (
	"context"
	"sort"
	"strings"

	"chinook_crud/internal/models"
	"chinook_crud/internal/printer"

	"github.com/pkg/errors"
)

// CatalogReader is the read surface each access style provides.
type CatalogReader interface {
	AllArtists(ctx context.Context) ([]models.Artist, error)
	ArtistNames(ctx context.Context) ([]models.ArtistName, error)
	ArtistByName(ctx context.Context, name string) (*models.Artist, error)
	ArtistByID(ctx context.Context, id int) (*models.Artist, error)
	AllAlbums(ctx context.Context) ([]models.Album, error)
	AlbumsByArtist(ctx context.Context, artistID int) ([]models.Album, error)
	TracksByComposer(ctx context.Context, composer string) ([]models.Track, error)
}

type Query string

const (
	QueryArtists          Query = "artists"
	QueryArtistNames      Query = "artist-names"
	QueryArtistByName     Query = "artist-by-name"
	QueryArtistByID       Query = "artist-by-id"
	QueryAlbumsByArtist   Query = "albums-by-artist"
	QueryTracksByComposer Query = "tracks-by-composer"
	QueryAlbums           Query = "albums"
)

var ErrUnknownQuery = errors.New("unknown query")

// SingleMatch reports whether the query looks up at most one record.
func (q Query) SingleMatch() bool {
	return q == QueryArtistByName || q == QueryArtistByID
}

// Queries lists every query name in sorted order.
func Queries() []string {
	names := []string{
		string(QueryArtists),
		string(QueryArtistNames),
		string(QueryArtistByName),
		string(QueryArtistByID),
		string(QueryAlbumsByArtist),
		string(QueryTracksByComposer),
		string(QueryAlbums),
	}
	sort.Strings(names)
	return names
}

// QueryParams carries the filter values; each query reads only the one it
// needs.
type QueryParams struct {
	Name     string
	ArtistID int
	Composer string
}

func DefaultParams() QueryParams {
	return QueryParams{
		Name:     "Queen",
		ArtistID: 51,
		Composer: "Queen",
	}
}

type CatalogService struct {
	reader CatalogReader
}

func NewCatalogService(reader CatalogReader) *CatalogService {
	return &CatalogService{reader: reader}
}

// Run executes one named query and returns its fully read result. A
// single-match query with no match yields no rows.
func (s *CatalogService) Run(ctx context.Context, q Query, p QueryParams) ([]printer.Row, error) {
	switch Query(strings.ToLower(string(q))) {
	case QueryArtists:
		artists, err := s.reader.AllArtists(ctx)
		return rowsOf(artists, err)
	case QueryArtistNames:
		names, err := s.reader.ArtistNames(ctx)
		return rowsOf(names, err)
	case QueryArtistByName:
		artist, err := s.reader.ArtistByName(ctx, p.Name)
		return rowOf(artist, err)
	case QueryArtistByID:
		artist, err := s.reader.ArtistByID(ctx, p.ArtistID)
		return rowOf(artist, err)
	case QueryAlbumsByArtist:
		albums, err := s.reader.AlbumsByArtist(ctx, p.ArtistID)
		return rowsOf(albums, err)
	case QueryTracksByComposer:
		tracks, err := s.reader.TracksByComposer(ctx, p.Composer)
		return rowsOf(tracks, err)
	case QueryAlbums:
		albums, err := s.reader.AllAlbums(ctx)
		return rowsOf(albums, err)
	default:
		return nil, errors.Wrapf(ErrUnknownQuery, "%q", q)
	}
}

func rowsOf[T printer.Row](records []T, err error) ([]printer.Row, error) {
	if err != nil {
		return nil, err
	}
	rows := make([]printer.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, r)
	}
	return rows, nil
}

func rowOf[T printer.Row](record *T, err error) ([]printer.Row, error) {
	if err != nil {
		return nil, err
	}
	if record == nil {
		return []printer.Row{}, nil
	}
	return []printer.Row{*record}, nil
}
