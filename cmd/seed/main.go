package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"madrasa/cmd/seed/internal/seeder"
	"madrasa/internal/config"
	"madrasa/internal/database"
	"madrasa/internal/logger"
	"madrasa/internal/repository"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// logger is not initialized yet
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	seedPath := flag.String("file", cfg.Content.SeedPath, "YAML seed file")
	flag.Parse()

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting seeding process...", zap.String("driver", cfg.DB.Driver))
	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN(), cfg.DB.MaxOpenConns)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Loading seed data from file", zap.String("path", *seedPath))
	file, err := seeder.LoadFile(*seedPath)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}

	s := seeder.New(repository.NewContentStore(db), repository.NewTransactionManagerAdapter(db))
	stats, err := s.Run(ctx, file)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding process completed.",
		zap.Int("lessons_created", stats.LessonsCreated),
		zap.Int("lessons_skipped", stats.LessonsSkipped),
		zap.Int("questions_created", stats.QuestionsCreated),
	)
}
