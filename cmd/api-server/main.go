package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"novelhub/database"
	"novelhub/internal/config"
	"novelhub/internal/http-api/handler"
	"novelhub/internal/http-api/middleware"
	"novelhub/internal/http-api/repository"
	"novelhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	novelRepo := repository.NewNovelRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo)
	novelService := service.NewNovelService(novelRepo, userRepo)
	chapterService := service.NewChapterService(chapterRepo, novelRepo, ledgerRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, userRepo, chapterRepo, novelRepo, cfg.AuthorRevenueShare)
	reviewService := service.NewReviewService(reviewRepo, novelRepo)
	commentService := service.NewCommentService(commentRepo, chapterRepo)
	progressService := service.NewProgressService(progressRepo, novelRepo, chapterRepo)
	statsService := service.NewStatsService(userRepo, novelRepo, chapterRepo, ledgerRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, int(cfg.AccessTokenTTL.Seconds()))
	userHandler := handler.NewUserHandler(userService)
	novelHandler := handler.NewNovelHandler(novelService)
	chapterHandler := handler.NewChapterHandler(chapterService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	commentHandler := handler.NewCommentHandler(commentService)
	progressHandler := handler.NewProgressHandler(progressService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Expired refresh tokens are unusable but pile up; sweep hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.PurgeExpiredSessions(); err != nil {
				logger.Error("refresh token sweep failed", "error", err)
			}
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(rateLimiter.Middleware())

	// Public reads carry the caller identity when a token is present so
	// entitlement checks can see who is asking.
	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(authService))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(authed)
	novelHandler.RegisterRoutes(public, authed)
	chapterHandler.RegisterRoutes(public, authed)
	ledgerHandler.RegisterRoutes(authed)
	reviewHandler.RegisterRoutes(public, authed)
	commentHandler.RegisterRoutes(public, authed)
	progressHandler.RegisterRoutes(authed)
	statsHandler.RegisterRoutes(authed)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting server", "addr", addr, "env", cfg.GoEnv)
	if err := router.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
