package repositories

import (
	"context"

	"chinook_crud/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ORMCatalogRepository reads the catalog through gorm model structs.
type ORMCatalogRepository struct {
	db *gorm.DB
}

func NewORMCatalogRepository(db *gorm.DB) *ORMCatalogRepository {
	return &ORMCatalogRepository{db: db}
}

func (r *ORMCatalogRepository) AllArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.WithContext(ctx).Find(&artists).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list artists")
	}
	return artists, nil
}

func (r *ORMCatalogRepository) ArtistNames(ctx context.Context) ([]models.ArtistName, error) {
	var names []models.ArtistName
	if err := r.db.WithContext(ctx).Select("Name").Find(&names).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list artist names")
	}
	return names, nil
}

func (r *ORMCatalogRepository) ArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	return firstOf[models.Artist](r.db.WithContext(ctx), map[string]any{"Name": name})
}

func (r *ORMCatalogRepository) ArtistByID(ctx context.Context, id int) (*models.Artist, error) {
	return firstOf[models.Artist](r.db.WithContext(ctx), map[string]any{"ArtistId": id})
}

func (r *ORMCatalogRepository) AllAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if err := r.db.WithContext(ctx).Find(&albums).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list albums")
	}
	return albums, nil
}

func (r *ORMCatalogRepository) AlbumsByArtist(ctx context.Context, artistID int) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).Where(map[string]any{"ArtistId": artistID}).Find(&albums).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list albums")
	}
	return albums, nil
}

func (r *ORMCatalogRepository) TracksByComposer(ctx context.Context, composer string) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.WithContext(ctx).Where(map[string]any{"Composer": composer}).Find(&tracks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tracks")
	}
	return tracks, nil
}

// firstOf returns nil, nil when nothing matches.
func firstOf[T any](db *gorm.DB, where map[string]any) (*T, error) {
	var row T
	err := db.Where(where).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
