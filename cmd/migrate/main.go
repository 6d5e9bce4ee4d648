package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/infrastructure/migration"
	"github.com/levelshop/backend/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultCreateDir = "internal/infrastructure/migration/sql"

var errUsage = errors.New("invalid usage")

// storeCommand runs against the migrator with the arguments after the
// command name
type storeCommand struct {
	usage string
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var storeCommands = map[string]storeCommand{
	"up": {
		usage: "up",
		run:   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() },
	},
	"down": {
		usage: "down",
		run:   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() },
	},
	"step": {
		usage: "step <n>",
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Steps(n)
		},
	},
	"goto": {
		usage: "goto <version>",
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("%w: version %q is not a number", errUsage, args[0])
			}
			return m.GoTo(uint(v))
		},
	},
	"version": {
		usage: "version",
		run: func(m *migration.Migrator, log *zap.Logger, _ []string) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"force": {
		usage: "force <version>",
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			v, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Force(v)
		},
	},
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func main() {
	createDir := flag.String("dir", defaultCreateDir, "Directory new migration files are written to")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err = run(log, *createDir, args[0], args[1:])
	_ = logger.Sync(log)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	case err != nil:
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, createDir, command string, args []string) error {
	switch command {
	case "create":
		if len(args) == 0 {
			return fmt.Errorf("%w: create needs a name", errUsage)
		}
		mf, err := migration.CreateMigration(createDir, args[0])
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil

	case "list":
		names, err := migration.ListMigrations(migration.Files, migration.Dir)
		if err != nil {
			return err
		}
		log.Info("Embedded migrations", zap.Int("count", len(names)))
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return nil
	}

	cmd, ok := storeCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	m, closeStore, err := openMigrator(log)
	if err != nil {
		return err
	}
	defer closeStore()

	log.Info("Running migration command", zap.String("command", cmd.usage))
	if err := cmd.run(m, log, args); err != nil {
		if errors.Is(err, errUsage) {
			return fmt.Errorf("%w (usage: migrate %s)", err, cmd.usage)
		}
		return err
	}
	return nil
}

// openMigrator connects to the configured postgres store
func openMigrator(log *zap.Logger) (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if !cfg.Store.Configured() {
		return nil, nil, errors.New("LEVELSHOP_STORE_URL and LEVELSHOP_STORE_KEY must be set")
	}

	dsn, err := persistence.PostgresDSN(cfg.Store.URL, cfg.Store.Key)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping store: %w", err)
	}

	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Storefront schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (negative rolls back)
  goto <version>    Migrate to a specific version
  version           Show the applied version
  force <version>   Set the version without running migrations
  create <name>     Write an empty up/down pair to -dir
  list              List the migrations compiled into this binary

Flags:
  -dir string         Directory for new migration files (default `+defaultCreateDir+`)
  -log-level string   debug, info, warn or error (default info)

The store is read from LEVELSHOP_STORE_URL and LEVELSHOP_STORE_KEY.
`)
}
