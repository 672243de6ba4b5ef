package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"suraksha-api/internal/api/handlers"
	apimiddleware "suraksha-api/internal/api/middleware"
	"suraksha-api/internal/config"
	"suraksha-api/internal/infrastructure/cache"
	"suraksha-api/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(90 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		// Analysis endpoints
		api.Route("/analyze", func(an chi.Router) {
			an.Post("/text", r.handlers.Analyze.Text)
			an.Post("/screenshot", r.handlers.Analyze.Screenshot)
			an.Post("/voice", r.handlers.Analyze.Voice)
		})

		// Pattern catalogue
		api.Get("/patterns", r.handlers.Analyze.Patterns)

		// Report generation
		api.Route("/report", func(rep chi.Router) {
			rep.Post("/generate", r.handlers.Report.Generate)
			rep.Get("/types", r.handlers.Report.Types)
		})

		// Safety companion chat
		api.Post("/chat", r.handlers.Chat.Respond)

		// Emergency alert (requires bearer token)
		api.Group(func(priv chi.Router) {
			priv.Use(apimiddleware.RequireBearer())
			priv.Post("/alert/trigger", r.handlers.Alert.Trigger)
		})
	})

	return router
}
