// Package server contains the HTTP handlers and wiring for the blog.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/flash"
	"blog/internal/kv"
	"blog/internal/middleware"
	"blog/internal/views"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const commentRateWindow = time.Minute

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// metrics returns the process-wide Prometheus middleware. Its collectors live
// in the default registry and can only be registered once.
func metrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New("blog")
	})
	return promMiddleware
}

// Server holds all dependencies and provides handlers
type Server struct {
	config     *config.Config
	db         *gorm.DB
	redis      *redis.Client
	app        *fiber.App
	flashStore flash.Store
	views      *html.Engine
}

// NewServer connects to the database and Redis and builds a server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	kv.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, kv.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; notices then live in process memory and comment
// rate limiting is disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	engine := views.New()
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}

	ttl := time.Duration(cfg.FlashTTLSeconds) * time.Second
	s := &Server{
		config:     cfg,
		db:         db,
		redis:      redisClient,
		flashStore: flash.NewStore(redisClient, ttl),
		views:      engine,
	}

	app := fiber.New(fiber.Config{
		AppName:      "Blog",
		Views:        engine,
		ViewsLayout:  views.Layout,
		ErrorHandler: s.ErrorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return s, nil
}

// App exposes the Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(metrics().Middleware)

	// Post images are hot-linked from other origins.
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(views.Static()),
		MaxAge: 3600,
	}))

	app.Use(flash.Middleware(flash.Config{
		Store:      s.flashStore,
		CookieName: s.config.SessionCookie,
		TTL:        time.Duration(s.config.FlashTTLSeconds) * time.Second,
		Secure:     s.config.IsProduction(),
	}))
}

// idParam restricts {id} to decimal digits; anything else falls through to 404.
const idParam = ":id<regex(^[0-9]{1,20}$)>"

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	metrics().RegisterAt(app, "/metrics")

	uow := middleware.UnitOfWork(s.db)
	commentLimit := middleware.RateLimit(s.redis, s.config.Env, s.config.CommentRateLimit, commentRateWindow, "comment")

	app.Get("/", uow, s.ListPosts)

	app.Get("/post/create", uow, s.NewPostForm)
	app.Post("/post/create", uow, s.CreatePost)

	app.Get("/post/update/"+idParam, uow, s.EditPostForm)
	app.Post("/post/update/"+idParam, uow, s.UpdatePost)

	app.Get("/post/delete/"+idParam, uow, s.DeletePost)

	app.Get("/post/"+idParam, uow, s.ShowPost)
	app.Post("/post/"+idParam, commentLimit, uow, s.AddComment)

	app.Get("/author/list", uow, s.ListAuthors)
}

// LivenessCheck reports that the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and, when configured, Redis health.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start serves HTTP on the configured port until Shutdown.
func (s *Server) Start() error {
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
