package repositories

import (
	"context"

	"chinook_crud/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const defaultSchema = "public"

// SchemaRepository reads table metadata from information_schema.
type SchemaRepository struct {
	conn   Querier
	schema string
}

func NewSchemaRepository(conn Querier) *SchemaRepository {
	return &SchemaRepository{conn: conn, schema: defaultSchema}
}

// Columns returns the columns of a table in ordinal order; an unknown
// table yields no columns.
func (r *SchemaRepository) Columns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := r.conn.Query(ctx, query, r.schema, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read columns of %s", table)
	}

	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ColumnInfo, error) {
		var col models.ColumnInfo
		var nullable string
		if err := row.Scan(&col.Name, &col.DataType, &nullable); err != nil {
			return col, err
		}
		col.Nullable = nullable == "YES"
		return col, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read columns of %s", table)
	}
	return columns, nil
}

// PrimaryKeys returns the primary key column names of a table.
func (r *SchemaRepository) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := r.conn.Query(ctx, query, r.schema, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read primary keys of %s", table)
	}
	pks, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read primary keys of %s", table)
	}
	return pks, nil
}

// ForeignKeys returns every foreign key declared on a table.
func (r *SchemaRepository) ForeignKeys(ctx context.Context, table string) ([]models.ForeignKeyInfo, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
	`

	rows, err := r.conn.Query(ctx, query, r.schema, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read foreign keys of %s", table)
	}

	fks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ForeignKeyInfo, error) {
		var fk models.ForeignKeyInfo
		err := row.Scan(&fk.ConstraintName, &fk.FromColumn, &fk.ToTable, &fk.ToColumn)
		return fk, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read foreign keys of %s", table)
	}
	return fks, nil
}
