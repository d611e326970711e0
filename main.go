package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vidtube/internal/config"
	"vidtube/internal/handlers"
	applog "vidtube/internal/logger"
	"vidtube/internal/media"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
	"vidtube/internal/services"
	"vidtube/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := applog.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	// --- Storage ---
	db, err := openDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	store, err := media.NewFromConfig(ctx, cfg.Media, logger)
	if err != nil {
		logger.Fatal("failed to configure media store", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.UploadTempDir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.String("dir", cfg.UploadTempDir), zap.Error(err))
	}

	// --- Events (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			logger.Warn("lifecycle events disabled", zap.Error(err))
		} else {
			events = mqClient
			defer mqClient.Close()
		}
	}

	app := NewApp(cfg, db, store, events, logger)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server gracefully stopped")
}

// openDatabase connects with the configured driver and migrates every model.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(cfg *config.Config, db *gorm.DB, store services.MediaStore, events services.EventPublisher, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	videoRepo := repositories.NewGORMVideoRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)
	subscriptionRepo := repositories.NewGORMSubscriptionRepository(db)
	tweetRepo := repositories.NewGORMTweetRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)
	dashboardRepo := repositories.NewGORMDashboardRepository(db)

	// --- Services ---
	tokens := services.NewTokenIssuer(cfg.AccessTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenSecret, cfg.RefreshTokenExpiry)
	authService := services.NewAuthService(userRepo, tokens, store, events, logger)
	userService := services.NewUserService(userRepo, store, logger)
	videoService := services.NewVideoService(videoRepo, userRepo, store, events, logger)
	commentService := services.NewCommentService(commentRepo, videoRepo)
	likeService := services.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo)
	tweetService := services.NewTweetService(tweetRepo, userRepo)
	playlistService := services.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	dashboardService := services.NewDashboardService(dashboardRepo)

	app := fiber.New(fiber.Config{
		AppName:      "vidtube",
		ErrorHandler: handlers.ErrorHandler(logger),
		BodyLimit:    cfg.BodyLimitBytes,
	})

	// --- Middleware ---
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.Recovery(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: cfg.CORSOrigin != "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		status, health, database := fiber.StatusOK, "healthy", "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, health, database = fiber.StatusServiceUnavailable, "degraded", "unreachable"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   events != nil,
		})
	})

	// --- API Routes ---
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitBurst, 10*time.Minute)
	guards := handlers.Guards{
		Required: middleware.AuthRequired(authService),
		Optional: middleware.AuthOptional(authService),
		Throttle: middleware.RateLimit(limiter, cfg.RateLimitWindow),
	}
	handlerCfg := handlers.Config{MaxLimit: cfg.PaginationMaxLimit, UploadTempDir: cfg.UploadTempDir}

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewUserHandler(userService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewVideoHandler(videoService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewCommentHandler(commentService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewLikeHandler(likeService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewSubscriptionHandler(subscriptionService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewTweetHandler(tweetService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewPlaylistHandler(playlistService, handlerCfg).RegisterRoutes(apiV1, guards)
	handlers.NewDashboardHandler(dashboardService, handlerCfg).RegisterRoutes(apiV1, guards)

	return app
}
