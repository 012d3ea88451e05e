package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/raid-finder/internal/api"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/internal/web"
	"github.com/hugh/raid-finder/pkg/config"
	"github.com/hugh/raid-finder/pkg/crypto"
	"github.com/hugh/raid-finder/pkg/session"
	"github.com/hugh/raid-finder/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting raid-finder server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, cfg.Server.Env, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Redis is only needed for server-side sessions
	var redisClient *redis.Client
	if cfg.Session.Backend == config.SessionBackendRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Session.SecretKey == "change-me-in-production" && !cfg.Server.IsDevelopment() {
		logger.Warn("SECRET_KEY is the default value, sessions can be forged")
	}

	hashKey, blockKey := crypto.SessionKeys(cfg.Session.SecretKey)
	sessionOpts := session.Options{
		MaxAge: int(cfg.Session.MaxAge().Seconds()),
		Secure: cfg.Session.Secure,
	}
	var sessionStore *session.Store
	if redisClient != nil {
		sessionStore = session.NewRedisStore(cfg.Session.Name, redisClient, sessionOpts, hashKey, blockKey)
	} else {
		sessionStore = session.NewCookieStore(cfg.Session.Name, sessionOpts, hashKey, blockKey)
	}

	// Initialize services
	st := store.New(db)
	authService := auth.NewService(st)
	sessions := auth.NewSessions(sessionStore)

	// Load templates
	templates, err := web.LoadTemplates()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Get static file system
	staticFS, err := web.GetStaticFS()
	if err != nil {
		logger.Error("failed to get static fs", "error", err)
		os.Exit(1)
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Store:          st,
		AuthService:    authService,
		Sessions:       sessions,
		Templates:      templates,
		StaticFS:       staticFS,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	router.Close()

	if redisClient != nil {
		redisClient.Close()
	}

	if err := database.Close(db); err != nil {
		logger.Error("closing database", "error", err)
	}

	logger.Info("server stopped")
}
