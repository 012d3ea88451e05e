package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/raid-finder/internal/api/handlers"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/internal/web"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
	limiter *middleware.RateLimiter
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional; checked by /health when set
	Logger         *slog.Logger
	Store          *store.Store
	AuthService    *auth.Service
	Sessions       *auth.Sessions
	Templates      *web.Templates
	StaticFS       fs.FS
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Login/register attempts per window
	RateLimitSecs  int      // Rate limit window in seconds
	TrustProxy     bool     // Take the client IP from proxy headers
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	view := handlers.NewView(cfg.Templates, cfg.Sessions, cfg.Logger)

	// Global middleware
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recovery(cfg.Logger, http.HandlerFunc(view.InternalError)))
	r.Use(middleware.LoadUser(cfg.Sessions, cfg.AuthService, cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5000", "http://127.0.0.1:5000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.CSRF(cfg.Sessions))

	limiter := middleware.NewRateLimiter(cfg.RateLimitReqs, time.Duration(cfg.RateLimitSecs)*time.Second)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(view, cfg.AuthService, cfg.Sessions)
	profileHandler := handlers.NewProfileHandler(view, cfg.Store)
	characterHandler := handlers.NewCharacterHandler(view, cfg.Store)
	jobHandler := handlers.NewJobHandler(view, cfg.Store)
	eventHandler := handlers.NewEventHandler(view, cfg.Store)

	r.NotFound(view.NotFound)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Public pages
	r.Get("/", eventHandler.Index)
	r.Get("/register", authHandler.RegisterPage)
	r.Get("/login", authHandler.LoginPage)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Signed-in pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)

		r.Get("/logout", authHandler.Logout)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Show)
			r.Get("/accounts", profileHandler.AccountsPage)
			r.Post("/accounts", profileHandler.SaveAccounts)
		})

		r.Route("/characters", func(r chi.Router) {
			r.Get("/", characterHandler.List)
			r.Get("/new", characterHandler.NewPage)
			r.Post("/new", characterHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", characterHandler.Show)
				r.Get("/edit", characterHandler.EditPage)
				r.Post("/edit", characterHandler.Update)
				r.Post("/retire", characterHandler.Retire)
				r.Post("/unlink", characterHandler.Unlink)
				r.Get("/jobs/new", jobHandler.NewPage)
				r.Post("/jobs/new", jobHandler.Create)
				r.Post("/jobs/{jobID}/unlink", jobHandler.Unlink)
			})
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.List)
			r.Get("/{id}", jobHandler.Show)
			r.Get("/{id}/edit", jobHandler.EditPage)
			r.Post("/{id}/edit", jobHandler.Update)
			r.Post("/{id}/retire", jobHandler.Retire)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Get("/new", eventHandler.NewPage)
			r.Post("/new", eventHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.Show)
				r.Get("/edit", eventHandler.EditPage)
				r.Post("/edit", eventHandler.Update)
				r.Post("/cancel", eventHandler.Cancel)
				r.Post("/roster", eventHandler.Join)
				r.Get("/roster/{entryID}/edit", eventHandler.EditEntryPage)
				r.Post("/roster/{entryID}/edit", eventHandler.UpdateEntry)
				r.Post("/roster/{entryID}/status", eventHandler.SetStatus)
				r.Post("/roster/{entryID}/withdraw", eventHandler.Withdraw)
			})
		})
	})

	// Static files
	if cfg.StaticFS != nil {
		fileServer := http.FileServer(http.FS(cfg.StaticFS))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return &Router{Router: r, limiter: limiter}
}

// Close stops background work owned by the router.
func (r *Router) Close() {
	r.limiter.Stop()
}
