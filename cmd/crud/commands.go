package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"chinook_crud/internal/config"
	"chinook_crud/internal/database"
	"chinook_crud/internal/models"
	"chinook_crud/internal/printer"
	"chinook_crud/internal/repositories"
	"chinook_crud/internal/services"

	"github.com/mitchellh/cli"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const noRecords = "No records found"

func runMigrate(ctx context.Context, cfg *config.Config, createDatabase bool) error {
	if createDatabase {
		if err := database.EnsureDatabaseExists(ctx, cfg); err != nil {
			return err
		}
	}

	conn, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOrWarn("raw", func() error { return conn.Close(ctx) })

	return database.RunMigrations(ctx, conn)
}

func runVerifySchema(ctx context.Context, cfg *config.Config, out io.Writer) error {
	conn, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOrWarn("raw", func() error { return conn.Close(ctx) })

	svc := services.NewSchemaService(repositories.NewSchemaRepository(conn))
	if err := svc.Verify(ctx, models.Tables...); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "Schema matches")
	return err
}

// withProgrammers opens an ORM session for the duration of fn.
func withProgrammers(ctx context.Context, cfg *config.Config, fn func(context.Context, *services.ProgrammerService) error) error {
	db, err := database.OpenORM(cfg)
	if err != nil {
		return err
	}
	defer closeOrWarn("orm", func() error { return database.CloseORM(db) })

	return fn(ctx, services.NewProgrammerService(repositories.NewProgrammerRepository(db)))
}

func listProgrammers(out io.Writer) func(context.Context, *services.ProgrammerService) error {
	return func(ctx context.Context, svc *services.ProgrammerService) error {
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return printAll(out, list)
	}
}

func seedProgrammers(out io.Writer) func(context.Context, *services.ProgrammerService) error {
	return func(ctx context.Context, svc *services.ProgrammerService) error {
		seeded, err := svc.Seed(ctx)
		if err != nil {
			return err
		}
		return printAll(out, seeded)
	}
}

func updateFamousFor(out io.Writer, id int, famousFor string) func(context.Context, *services.ProgrammerService) error {
	return func(ctx context.Context, svc *services.ProgrammerService) error {
		p, err := svc.UpdateFamousFor(ctx, id, famousFor)
		if errors.Is(err, services.ErrNotFound) {
			_, err = fmt.Fprintln(out, noRecords)
			return err
		}
		if err != nil {
			return err
		}
		return printer.Fprint(out, p)
	}
}

func normalizeGenders(out io.Writer) func(context.Context, *services.ProgrammerService) error {
	return func(ctx context.Context, svc *services.ProgrammerService) error {
		res, err := svc.NormalizeGenders(ctx)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"updated":   res.Updated,
			"undefined": res.Undefined,
		}).Info("Normalized genders")

		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return printAll(out, list)
	}
}

func deleteProgrammer(ui cli.Ui, firstName, lastName string) func(context.Context, *services.ProgrammerService) error {
	return func(ctx context.Context, svc *services.ProgrammerService) error {
		_, err := svc.DeleteByName(ctx, firstName, lastName, ui)
		return err
	}
}

// terminalUI keeps one buffered reader across questions; BasicUi would
// otherwise drop piped input after the first answer.
func terminalUI() cli.Ui {
	return &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
}

func runCatalog(ctx context.Context, cfg *config.Config, out io.Writer, style string, q services.Query, p services.QueryParams) error {
	rows, err := fetchCatalog(ctx, cfg, style, q, p)
	if err != nil {
		return err
	}
	if len(rows) == 0 && q.SingleMatch() {
		_, err = fmt.Fprintln(out, noRecords)
		return err
	}
	return printer.Fprint(out, rows...)
}

// fetchCatalog reads the whole result and releases the connection before
// returning, so nothing is printed while a connection is held.
func fetchCatalog(ctx context.Context, cfg *config.Config, style string, q services.Query, p services.QueryParams) ([]printer.Row, error) {
	logger := log.WithFields(log.Fields{"style": style, "query": q})
	logger.Debug("Running catalog query")

	switch style {
	case styleORM:
		db, err := database.OpenORM(cfg)
		if err != nil {
			return nil, err
		}
		defer closeOrWarn(style, func() error { return database.CloseORM(db) })
		return services.NewCatalogService(repositories.NewORMCatalogRepository(db)).Run(ctx, q, p)
	case styleExpression:
		db, err := database.OpenSQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer closeOrWarn(style, db.Close)
		return services.NewCatalogService(repositories.NewExpressionCatalogRepository(db)).Run(ctx, q, p)
	case styleRaw:
		conn, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer closeOrWarn(style, func() error { return conn.Close(ctx) })
		return services.NewCatalogService(repositories.NewRawCatalogRepository(conn)).Run(ctx, q, p)
	default:
		return nil, errors.Errorf("unknown style %q", style)
	}
}

func runSQL(ctx context.Context, cfg *config.Config, out io.Writer, statement string, args []string, one bool) error {
	if err := services.ValidateStatement(statement); err != nil {
		return err
	}
	records, err := fetchSQL(ctx, cfg, statement, args, one)
	if err != nil {
		return err
	}
	if len(records) == 0 && one {
		_, err = fmt.Fprintln(out, noRecords)
		return err
	}
	return printAll(out, records)
}

func fetchSQL(ctx context.Context, cfg *config.Config, statement string, args []string, one bool) ([]models.Record, error) {
	conn, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeOrWarn("raw", func() error { return conn.Close(ctx) })

	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a
	}

	cur, err := repositories.NewRawRepository(conn).Execute(ctx, statement, values...)
	if err != nil {
		return nil, err
	}
	if !one {
		return cur.FetchAll()
	}

	defer cur.Close()
	rec, err := cur.FetchOne()
	if err != nil || rec == nil {
		return nil, err
	}
	return []models.Record{rec}, nil
}

func closeOrWarn(handle string, close func() error) {
	if err := close(); err != nil {
		log.WithError(err).WithField("handle", handle).Warn("Failed to close database")
	}
}

func printAll[T printer.Row](out io.Writer, items []T) error {
	rows := make([]printer.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, item)
	}
	return printer.Fprint(out, rows...)
}
