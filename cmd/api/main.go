// @title Madrasa API
// @version 1.0
// @description Lessons, quizzes and chapters of the Madrasa learning site.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "madrasa/cmd/api/docs"
	"madrasa/internal/adapter"
	"madrasa/internal/cache"
	"madrasa/internal/config"
	"madrasa/internal/database"
	"madrasa/internal/domain"
	"madrasa/internal/handler"
	"madrasa/internal/logger"
	"madrasa/internal/middleware"
	"madrasa/internal/repository"
	"madrasa/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN(), cfg.DB.MaxOpenConns)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	contentStore := repository.NewContentStore(db)
	userRepository := repository.NewSQLXUserRepository(db)
	chapterStore, err := repository.NewChapterStore(cfg.Content.ChaptersPath)
	if err != nil {
		appLogger.Fatal("Failed to load chapters", zap.String("path", cfg.Content.ChaptersPath), zap.Error(err))
	}

	// Redis only backs token revocation; the site keeps serving without it
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, token revocation disabled", zap.String("address", cfg.Redis.Address), zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	}

	// Initialize services
	catalogService := service.NewCatalogService(contentStore, chapterStore)
	quizService := service.NewQuizService(contentStore)
	authService, err := service.NewAuthService(userRepository, cacheAdapter, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Initialize handlers
	lessonHandler := handler.NewLessonHandler(catalogService)
	quizHandler := handler.NewQuizHandler(catalogService, quizService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)
	validationMiddleware := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{
		AppName:      "Madrasa",
		ErrorHandler: middleware.ErrorHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/health", healthHandler.Check)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	// Lessons and categories
	api.Get("/lessons", validationMiddleware.ValidateCategory(), lessonHandler.ListLessons)
	api.Get("/lessons/:id", validationMiddleware.ValidateLessonID(), lessonHandler.GetLesson)
	api.Get("/categories", lessonHandler.ListCategories)
	api.Get("/categories/:category/lessons", validationMiddleware.ValidateCategory(), lessonHandler.ListByCategory)

	// Quizzes are open to everyone; a signed-in learner is only logged
	api.Get("/lessons/:id/quiz", validationMiddleware.ValidateLessonID(), quizHandler.GetQuiz)
	api.Post("/lessons/:id/quiz", validationMiddleware.ValidateLessonID(), middleware.OptionalAuth(authService), quizHandler.SubmitQuiz)

	// Chapters
	api.Get("/chapters", lessonHandler.ListChapters)
	api.Get("/sections/:id", validationMiddleware.ValidateSectionID(), lessonHandler.GetSection)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// User routes (all protected)
	userGroup := api.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.String("db_driver", cfg.DB.Driver),
		)
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
