package repositories

import (
	"context"
	"time"

	"chinook_crud/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Querier is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RawRepository issues literal SQL. Values always travel separately from
// the statement text as positional ($1, $2, ...) arguments.
type RawRepository struct {
	conn Querier
}

func NewRawRepository(conn Querier) *RawRepository {
	return &RawRepository{conn: conn}
}

// Execute sends the statement and returns a cursor over its result. The
// cursor holds the connection until it is exhausted or closed.
func (r *RawRepository) Execute(ctx context.Context, query string, args ...any) (*Cursor, error) {
	start := time.Now()
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		logStatement("raw", query, start, err)
		return nil, errors.Wrap(err, "failed to execute query")
	}

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}
	return &Cursor{rows: rows, columns: columns, query: query, start: start}, nil
}

// Cursor pulls rows of a single statement into memory.
type Cursor struct {
	rows    pgx.Rows
	columns []string
	query   string
	start   time.Time
	closed  bool
}

func (c *Cursor) Columns() []string {
	return c.columns
}

// FetchOne returns the next row, or nil once the result is exhausted.
func (c *Cursor) FetchOne() (models.Record, error) {
	if c.closed {
		return nil, nil
	}
	if !c.rows.Next() {
		return nil, c.Close()
	}
	return c.scan()
}

// FetchAll returns every remaining row and closes the cursor. An empty
// result is an empty, non-nil slice.
func (c *Cursor) FetchAll() ([]models.Record, error) {
	records := []models.Record{}
	if c.closed {
		return records, nil
	}
	for c.rows.Next() {
		rec, err := c.scan()
		if err != nil {
			c.Close()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := c.Close(); err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the result. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.rows.Close()
	err := c.rows.Err()
	logStatement("raw", c.query, c.start, err)
	if err != nil {
		return errors.Wrap(err, "failed to read rows")
	}
	return nil
}

func (c *Cursor) scan() (models.Record, error) {
	values, err := c.rows.Values()
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan row")
	}
	rec := make(models.Record, len(values))
	for i, v := range values {
		rec[i] = normalize(v)
	}
	return rec, nil
}

// normalize turns driver values into plain Go values that print sensibly.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		if !x.Valid || x.NaN || x.InfinityModifier != pgtype.Finite {
			return nil
		}
		return decimal.NewFromBigInt(x.Int, x.Exp)
	default:
		return v
	}
}
