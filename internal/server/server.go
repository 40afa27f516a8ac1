// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"chirp/internal/auth"
	"chirp/internal/cache"
	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *auth.SessionCodec
	userRepo       repository.UserRepository
	tweetRepo      repository.TweetRepository
	replyRepo      repository.ReplyRepository
	favoriteRepo   repository.FavoriteRepository
	followRepo     repository.FollowRepository
	userService    *service.UserService
	relationships  *service.RelationshipService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	sessions, err := auth.NewSessionCodec(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	followRepo := repository.NewFollowRepository(db)

	prom := middleware.InitMetrics("chirp-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       sessions,
		userRepo:       userRepo,
		tweetRepo:      tweetRepo,
		replyRepo:      replyRepo,
		favoriteRepo:   favoriteRepo,
		followRepo:     followRepo,
	}
	server.userService = service.NewUserService(userRepo)
	server.relationships = service.NewRelationshipService(userRepo, tweetRepo, favoriteRepo, followRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Distributed tracing spans per request
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware should run before middlewares that can short-circuit
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"data":    nil,
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	app.Post("/sign-up", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.SignUp)
	app.Post("/sign-in/email", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "signin"), s.SignInEmail)
	app.Post("/sign-in/username", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "signin"), s.SignInUserName)
	app.Post("/sign-out", s.SignOut)

	// Profile routes
	app.Get("/me", s.AuthRequired(), s.Me)
	app.Get("/myaccount", s.AuthRequired(), s.Me)
	app.Put("/edit-profile", s.AuthRequired(), s.EditProfile)

	// Tweet routes. The parameterized GET is tiered: it serves a restricted
	// view to unauthenticated callers instead of rejecting them.
	app.Get("/tweets", s.AuthRequired(), s.GetMyTweets)
	app.Post("/tweets", s.AuthRequired(), middleware.RateLimit(
		s.redis, 15, time.Minute, "create_tweet"), s.CreateTweet)
	app.Get("/tweets/:userName", s.GetTweetsByUserName)
	app.Delete("/tweets/:tweetId", s.AuthRequired(), s.DeleteTweet)

	// Reply routes
	app.Post("/tweets/:tweetId/reply", s.AuthRequired(), middleware.RateLimit(
		s.redis, 15, time.Minute, "create_reply"), s.CreateReply)
	app.Get("/myreplies", s.AuthRequired(), s.GetMyReplies)
	app.Get("/tweetsandreplies", s.AuthRequired(), s.GetMyTweetsAndReplies)
	app.Get("/tweetsandreplies/:userName", s.GetTweetsAndRepliesByUserName)

	// Favorite routes
	app.Put("/tweets/:tweetId/favorite", s.AuthRequired(), s.ToggleFavorite)
	app.Get("/myfavorites", s.AuthRequired(), s.GetMyFavorites)
	app.Get("/favorites/:userName", s.AuthRequired(), s.GetFavoritesByUserName)

	// Follow routes
	app.Get("/usersifollow", s.AuthRequired(), s.GetUsersIFollow)
	app.Get("/usersthatfollowme", s.AuthRequired(), s.GetUsersThatFollowMe)
	app.Get("/following/:userName", s.GetFollowing)
	app.Get("/followers/:userName", s.GetFollowers)

	// The follow toggle matches any PUT /:userName/follow, so it must be
	// registered after every other PUT route.
	app.Put("/:userName/follow", s.AuthRequired(), s.ToggleFollow)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: the API degrades to uncached, unthrottled
	// operation without it, so it only reports, never fails readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
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

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Chirp API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
