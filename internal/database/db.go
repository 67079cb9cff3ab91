package database

import (
	"context"
	"fmt"
	"time"

	"chinook_crud/internal/config"
	"chinook_crud/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const pingTimeout = 5 * time.Second

// EnsureDatabaseExists creates the configured database through the
// maintenance database when it is missing.
func EnsureDatabaseExists(ctx context.Context, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.AdminDSN())
	if err != nil {
		return errors.Wrap(err, "failed to connect to PostgreSQL")
	}
	defer conn.Close(ctx)

	logger := log.WithField("database", cfg.Database)
	logger.Info("Checking if database exists")

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := conn.QueryRow(ctx, query, cfg.Database).Scan(&exists); err != nil {
		return errors.Wrap(err, "failed to check if database exists")
	}
	if exists {
		logger.Info("Database already exists")
		return nil
	}

	// CREATE DATABASE cannot run inside a transaction block.
	createQuery := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.Database}.Sanitize())
	if _, err := conn.Exec(ctx, createQuery); err != nil {
		return errors.Wrap(err, "failed to create database")
	}
	logger.Info("Database created")
	return nil
}

// Connect opens a single driver-level connection. The caller owns it and
// must Close it exactly once, after every result has been read.
func Connect(ctx context.Context, cfg *config.Config) (*pgx.Conn, error) {
	log.WithField("dsn", cfg.Redacted()).Debug("Connecting to database")

	conn, err := pgx.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		conn.Close(ctx)
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return conn, nil
}

// OpenORM opens a gorm session on the configured database.
func OpenORM(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logging.GormLogger(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to access database handle")
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// CloseORM releases the connection behind a gorm session.
func CloseORM(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenSQL opens a database/sql handle on the lib/pq driver, wrapped in sqlx
// for struct scanning.
func OpenSQL(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}
