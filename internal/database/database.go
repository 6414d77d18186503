package database

import (
	"fmt"
	"strings"

	"madrasa/internal/config"
	"madrasa/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "github.com/sijms/go-ora/v2"  // registers "oracle"
	"go.uber.org/zap"
)

func init() {
	// go-ora takes :name placeholders; sqlx has no default bindtype for this driver name.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
}

// NewSQLXDB opens and pings a pool for one of the supported drivers.
func NewSQLXDB(driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	switch driver {
	case config.DriverOracle:
		// Oracle reports unquoted identifiers in upper case.
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
	case config.DriverSQLite:
		// a single writer avoids "database is locked" under concurrent seeding
		maxOpenConns = 1
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}
