package main

import (
	"context"
	"os"
	"strconv"

	"chinook_crud/internal/config"
	"chinook_crud/internal/logging"
	"chinook_crud/internal/services"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	styleORM        = "orm"
	styleExpression = "expression"
	styleRaw        = "raw"
)

var (
	defaults = services.DefaultParams()

	app = kingpin.New("crud", "CRUD demonstrations against the chinook database")

	logLevel = app.Flag(
		"log-level",
		"debug, info, warn or error (overrides $LOG_LEVEL)").
		Enum("debug", "info", "warn", "error")

	logFormat = app.Flag(
		"log-format",
		"text or json (overrides $LOG_FORMAT)").
		Enum("text", "json")

	migrate         = app.Command("migrate", "create the tables that do not exist yet")
	migrateCreateDB = migrate.Flag("create-database", "create the database first when it is missing").Bool()

	verifySchema = app.Command("verify-schema", "compare the table descriptors with the live database")

	// ORM demonstrations on the Programmer table
	programmers = app.Command("programmers", "create, read, update and delete programmers through the ORM")

	programmersList = programmers.Command("list", "list every programmer")
	programmersSeed = programmers.Command("seed", "insert the seven computing pioneers")

	programmersUpdate          = programmers.Command("update-famous", "change what one programmer is famous for")
	programmersUpdateID        = programmersUpdate.Flag("id", "programmer id").Required().Int()
	programmersUpdateFamousFor = programmersUpdate.Flag("famous-for", "new value").Required().String()

	programmersNormalize = programmers.Command("normalize-gender", "rewrite F and M as Female and Male")

	programmersDelete      = programmers.Command("delete", "delete one programmer after confirmation")
	programmersDeleteFirst = programmersDelete.Flag("first", "first name, asked for when omitted").String()
	programmersDeleteLast  = programmersDelete.Flag("last", "last name, asked for when omitted").String()

	// Catalog reads in any of the three access styles
	catalog         = app.Command("catalog", "run one catalog query")
	catalogQuery    = catalog.Arg("query", "query name").Required().Enum(services.Queries()...)
	catalogStyle    = catalog.Flag("style", "access style").Short('s').Default(styleORM).Enum(styleORM, styleExpression, styleRaw)
	catalogName     = catalog.Flag("name", "artist name").Default(defaults.Name).String()
	catalogArtistID = catalog.Flag("artist-id", "artist id").Default(strconv.Itoa(defaults.ArtistID)).Int()
	catalogComposer = catalog.Flag("composer", "track composer").Default(defaults.Composer).String()

	sqlCmd       = app.Command("sql", "run one literal statement with positional ($1, $2, ...) arguments")
	sqlStatement = sqlCmd.Arg("statement", "SQL text").Required().String()
	sqlArgs      = sqlCmd.Arg("args", "values bound to $1, $2, ...").Strings()
	sqlOne       = sqlCmd.Flag("one", "fetch a single row").Bool()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if err := logging.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	ctx := context.Background()
	out := os.Stdout

	switch cmd {
	case migrate.FullCommand():
		err = runMigrate(ctx, cfg, *migrateCreateDB)
	case verifySchema.FullCommand():
		err = runVerifySchema(ctx, cfg, out)
	case programmersList.FullCommand():
		err = withProgrammers(ctx, cfg, listProgrammers(out))
	case programmersSeed.FullCommand():
		err = withProgrammers(ctx, cfg, seedProgrammers(out))
	case programmersUpdate.FullCommand():
		err = withProgrammers(ctx, cfg, updateFamousFor(out, *programmersUpdateID, *programmersUpdateFamousFor))
	case programmersNormalize.FullCommand():
		err = withProgrammers(ctx, cfg, normalizeGenders(out))
	case programmersDelete.FullCommand():
		err = withProgrammers(ctx, cfg, deleteProgrammer(terminalUI(), *programmersDeleteFirst, *programmersDeleteLast))
	case catalog.FullCommand():
		params := services.QueryParams{
			Name:     *catalogName,
			ArtistID: *catalogArtistID,
			Composer: *catalogComposer,
		}
		err = runCatalog(ctx, cfg, out, *catalogStyle, services.Query(*catalogQuery), params)
	case sqlCmd.FullCommand():
		err = runSQL(ctx, cfg, out, *sqlStatement, *sqlArgs, *sqlOne)
	default:
		app.Fatalf("Unknown command %s", cmd)
	}

	if err != nil {
		log.WithError(err).WithField("command", cmd).Fatal("Command failed")
	}
}
