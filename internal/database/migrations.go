package database

import (
	"context"

	"chinook_crud/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Execer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Migrations returns the statements RunMigrations executes, in order.
// Existing tables (e.g. a restored chinook dump) are left untouched.
func Migrations() []string {
	migrations := make([]string, 0, len(models.Tables))
	for _, t := range models.Tables {
		migrations = append(migrations, t.CreateStatement())
	}
	return migrations
}

func RunMigrations(ctx context.Context, db Execer) error {
	migrations := Migrations()
	for i, migration := range migrations {
		log.Debugf("Running migration %d/%d", i+1, len(migrations))
		if _, err := db.Exec(ctx, migration); err != nil {
			return errors.Wrapf(err, "migration %d failed", i+1)
		}
	}

	log.Info("All migrations completed successfully")
	return nil
}
