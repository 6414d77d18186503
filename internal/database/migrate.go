package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"madrasa/internal/config"
	"madrasa/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Direction selects which half of each migration file pair is applied.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// migrationsDir maps a driver name to its embedded dialect directory.
func migrationsDir(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "migrations/sqlite3", nil
	case config.DriverPostgres:
		return "migrations/postgres", nil
	case config.DriverOracle:
		return "migrations/oracle", nil
	}
	return "", fmt.Errorf("no migrations for driver %q", driver)
}

// RunMigrations applies the embedded schema for driver in the given direction.
// sqlite3 and pgx go through golang-migrate; Oracle files run sequentially.
func RunMigrations(db *sql.DB, driver string, dir Direction) error {
	srcDir, err := migrationsDir(driver)
	if err != nil {
		return err
	}

	if driver == config.DriverOracle {
		return runSequential(db, srcDir, dir)
	}

	src, err := iofs.New(migrationsFS, srcDir)
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}

	var m *migrate.Migrate
	switch driver {
	case config.DriverSQLite:
		drv, err := sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			return fmt.Errorf("could not create sqlite3 migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", drv)
		if err != nil {
			return fmt.Errorf("could not create migrator: %w", err)
		}
	case config.DriverPostgres:
		drv, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
		if err != nil {
			return fmt.Errorf("could not create pgx migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx5", drv)
		if err != nil {
			return fmt.Errorf("could not create migrator: %w", err)
		}
	}

	if dir == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run %s migrations: %w", dir, err)
	}

	version, dirty, _ := m.Version()
	logger.Get().Info("Migrations completed",
		zap.String("driver", driver),
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// runSequential executes every *.<dir>.sql file in order, one statement at a time.
// go-ora cannot run several statements in a single Exec.
func runSequential(db *sql.DB, srcDir string, dir Direction) error {
	files, err := migrationFiles(migrationsFS, srcDir, dir)
	if err != nil {
		return err
	}

	for _, name := range files {
		content, err := fs.ReadFile(migrationsFS, path.Join(srcDir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				if isAlreadyApplied(err, dir) {
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}

		logger.Get().Info("Executed migration", zap.String("file", name))
	}
	return nil
}

// migrationFiles lists the migration files for a direction, ascending for up and
// descending for down.
func migrationFiles(fsys fs.FS, srcDir string, dir Direction) ([]string, error) {
	entries, err := fs.ReadDir(fsys, srcDir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(dir) + ".sql"
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

// splitStatements breaks a script on semicolons and drops empty statements.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ORA-00955: name is already used by an existing object
// ORA-00942: table or view does not exist
func isAlreadyApplied(err error, dir Direction) bool {
	msg := err.Error()
	if dir == Down {
		return strings.Contains(msg, "ORA-00942")
	}
	return strings.Contains(msg, "ORA-00955")
}
