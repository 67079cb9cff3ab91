package repositories

import (
	"context"
	"database/sql"
	"time"

	"chinook_crud/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ExpressionCatalogRepository builds its statements from the table
// descriptors in models rather than from literal SQL or model structs.
type ExpressionCatalogRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func NewExpressionCatalogRepository(db *sqlx.DB) *ExpressionCatalogRepository {
	return &ExpressionCatalogRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Select is the equivalent of table.select(): every column of t, in order.
func (r *ExpressionCatalogRepository) Select(t models.Table) sq.SelectBuilder {
	return r.SelectColumns(t, t.ColumnNames()...)
}

// SelectColumns restricts the projection to the named columns. Unknown
// names panic, since they are fixed at compile time.
func (r *ExpressionCatalogRepository) SelectColumns(t models.Table, names ...string) sq.SelectBuilder {
	cols := make([]string, 0, len(names))
	for _, name := range names {
		cols = append(cols, t.MustColumn(name).Quoted())
	}
	return r.builder.Select(cols...).From(t.Quoted())
}

// Equals is the condition t.column = value.
func Equals(t models.Table, column string, value any) sq.Eq {
	return sq.Eq{t.MustColumn(column).Quoted(): value}
}

func (r *ExpressionCatalogRepository) AllArtists(ctx context.Context) ([]models.Artist, error) {
	return selectAll[models.Artist](ctx, r.db, r.Select(models.ArtistTable))
}

func (r *ExpressionCatalogRepository) ArtistNames(ctx context.Context) ([]models.ArtistName, error) {
	return selectAll[models.ArtistName](ctx, r.db, r.SelectColumns(models.ArtistTable, "Name"))
}

func (r *ExpressionCatalogRepository) ArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	q := r.Select(models.ArtistTable).Where(Equals(models.ArtistTable, "Name", name))
	return selectOne[models.Artist](ctx, r.db, q)
}

func (r *ExpressionCatalogRepository) ArtistByID(ctx context.Context, id int) (*models.Artist, error) {
	q := r.Select(models.ArtistTable).Where(Equals(models.ArtistTable, "ArtistId", id))
	return selectOne[models.Artist](ctx, r.db, q)
}

func (r *ExpressionCatalogRepository) AllAlbums(ctx context.Context) ([]models.Album, error) {
	return selectAll[models.Album](ctx, r.db, r.Select(models.AlbumTable))
}

func (r *ExpressionCatalogRepository) AlbumsByArtist(ctx context.Context, artistID int) ([]models.Album, error) {
	q := r.Select(models.AlbumTable).Where(Equals(models.AlbumTable, "ArtistId", artistID))
	return selectAll[models.Album](ctx, r.db, q)
}

func (r *ExpressionCatalogRepository) TracksByComposer(ctx context.Context, composer string) ([]models.Track, error) {
	q := r.Select(models.TrackTable).Where(Equals(models.TrackTable, "Composer", composer))
	return selectAll[models.Track](ctx, r.db, q)
}

func selectAll[T any](ctx context.Context, db *sqlx.DB, b sq.SelectBuilder) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	start := time.Now()
	var rows []T
	err = db.SelectContext(ctx, &rows, query, args...)
	logStatement("expression", query, start, err)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	return rows, nil
}

// selectOne returns nil, nil when no row matches.
func selectOne[T any](ctx context.Context, db *sqlx.DB, b sq.SelectBuilder) (*T, error) {
	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	start := time.Now()
	var row T
	err = db.GetContext(ctx, &row, query, args...)
	logStatement("expression", query, start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to execute query")
	}
	return &row, nil
}

func logStatement(style, query string, start time.Time, err error) {
	entry := log.WithFields(log.Fields{
		"style":             style,
		"query":             query,
		"execution_time_ms": time.Since(start).Milliseconds(),
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		entry.WithError(err).Debug("Statement failed")
		return
	}
	entry.Debug("Statement executed")
}
