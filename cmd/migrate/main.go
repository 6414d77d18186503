package main

import (
	"flag"
	"log"

	"madrasa/internal/config"
	"madrasa/internal/database"
	"madrasa/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", string(database.Up), "migration direction: up or down")
	flag.Parse()

	dir := database.Direction(*direction)
	if dir != database.Up && dir != database.Down {
		log.Fatalf("invalid direction %q (want up or down)", *direction)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN(), cfg.DB.MaxOpenConns)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.DB.Driver, dir); err != nil {
		l.Fatal("Failed to run migrations", zap.String("direction", string(dir)), zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("driver", cfg.DB.Driver), zap.String("direction", string(dir)))
}
