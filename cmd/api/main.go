package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"blog-engagement/internal/config"
	"blog-engagement/internal/handler"
	"blog-engagement/internal/middleware"
	"blog-engagement/internal/repository"
	"blog-engagement/internal/repository/memory"
	"blog-engagement/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zlog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET is required")
	}

	repos, closeStore := openRepositories(cfg, zlog)
	defer closeStore()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		zlog.Warn("Failed to connect to Redis, ranking cache disabled", zap.Error(err))
		redis = nil
	}
	if redis != nil {
		defer redis.Close()
	}

	services := service.NewServices(repos, redis, cfg, zlog)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg.JWTSecret)

	zlog.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageDriver),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

func openRepositories(cfg *config.Config, zlog *zap.Logger) (*repository.Repositories, func()) {
	switch cfg.StorageDriver {
	case "memory":
		store := memory.NewStore()
		if err := store.Seed(cfg.MemorySeedPosts); err != nil {
			zlog.Fatal("Failed to seed in-memory posts", zap.Error(err))
		}
		zlog.Warn("Using in-memory storage; data is lost on restart",
			zap.Int("seeded_posts", len(cfg.MemorySeedPosts)),
		)
		return store.Repositories(), func() {}
	case "postgres":
		db, err := config.NewPostgresDB(cfg)
		if err != nil {
			zlog.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := config.RunMigrations(db, cfg, zlog); err != nil {
			zlog.Fatal("Failed to run migrations", zap.Error(err))
		}
		return repository.NewRepositories(db, cfg.StoreTimeout), func() { db.Close() }
	default:
		zlog.Fatal("Unknown STORAGE_DRIVER", zap.String("driver", cfg.StorageDriver))
		return nil, nil
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h.Register(app.Group("/api/v1"), jwtSecret)
}
