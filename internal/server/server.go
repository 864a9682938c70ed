// Package server contains HTTP handlers for the catalog API endpoints.
package server

import (
	"context"
	"fmt"

	"bestmods/internal/assets"
	"bestmods/internal/cache"
	"bestmods/internal/config"
	"bestmods/internal/database"
	"bestmods/internal/repository"
	"bestmods/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	logger zerolog.Logger

	modRepo      repository.ModRepository
	categoryRepo repository.CategoryRepository
	sourceRepo   repository.SourceRepository

	modService    *service.ModService
	sourceService *service.SourceService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDB(cfg, db, logger), nil
}

// NewServerWithDB wires a server around an existing database handle. Tests
// use it to run against in-memory sqlite.
func NewServerWithDB(cfg *config.Config, db *gorm.DB, logger zerolog.Logger) *Server {
	ingestor := assets.NewIngestor(cfg.StorageDir, logger)

	server := &Server{
		config:       cfg,
		db:           db,
		redis:        cache.GetClient(),
		logger:       logger,
		modRepo:      repository.NewModRepository(db, logger),
		categoryRepo: repository.NewCategoryRepository(db),
		sourceRepo:   repository.NewSourceRepository(db),
	}
	server.modService = service.NewModService(server.modRepo, ingestor, logger)
	server.sourceService = service.NewSourceService(server.sourceRepo, ingestor, logger)

	return server
}

// SetupMiddleware installs the shared middleware stack.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	prom := fiberprometheus.New("bestmods-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
}

// SetupRoutes registers all API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.Health)

	api := app.Group("/api")

	mods := api.Group("/mods")
	mods.Get("/", s.BrowseMods)
	mods.Post("/", s.EditMod)
	mods.Get("/:url", s.GetMod)
	mods.Post("/:id/recount", s.FlagRecount)

	sources := api.Group("/sources")
	sources.Get("/", s.ListSources)
	sources.Post("/", s.AddSource)
	sources.Get("/:url", s.GetSource)

	api.Get("/categories", s.ListCategories)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

// Health handles GET /health
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
