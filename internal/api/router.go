package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"legal-literacy-portal/internal/api/handlers"
	apimiddleware "legal-literacy-portal/internal/api/middleware"
	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/internal/infrastructure/cache"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewRouter creates a new Router instance. A nil cache selects the in-process rate limiter.
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, m *metrics.Metrics, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		metrics:  m,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	timeout := r.config.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger, r.metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(timeout))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		ExposedHeaders:   []string{handlers.SessionHeader, "Content-Disposition"},
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Operational routes
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)
	router.Handle("/metrics", r.metrics.Handler())

	router.Route("/api/v1", func(api chi.Router) {
		if r.config.RateLimit.Enabled {
			if r.cache != nil {
				api.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit, r.logger))
			} else {
				api.Use(apimiddleware.LocalRateLimiter(r.config.RateLimit))
			}
		}

		// Document fraud checker
		api.Route("/fraud", func(fraud chi.Router) {
			fraud.Post("/analyze", r.handlers.Fraud.Analyze)
			fraud.Post("/analyze/upload", r.handlers.Fraud.AnalyzeUpload)
			fraud.Post("/report", r.handlers.Fraud.Report)
		})

		// SASSA loan analyzer
		api.Route("/loans", func(loans chi.Router) {
			loans.Post("/analyze", r.handlers.Loans.Analyze)
			loans.Post("/analyze/upload", r.handlers.Loans.AnalyzeUpload)
			loans.Post("/report", r.handlers.Loans.Report)
			loans.Get("/lenders", r.handlers.Loans.Lenders)
			loans.Get("/alternatives", r.handlers.Loans.Alternatives)
		})

		// Document summarizer
		api.Route("/documents", func(docs chi.Router) {
			docs.Post("/summarize", r.handlers.Documents.Summarize)
			docs.Post("/summarize/upload", r.handlers.Documents.SummarizeUpload)
		})

		// Will generator
		api.Route("/will", func(will chi.Router) {
			will.Post("/generate", r.handlers.Will.Generate)
			will.Route("/wizard", func(wiz chi.Router) {
				wiz.Get("/", r.handlers.Will.Wizard)
				wiz.Post("/step", r.handlers.Will.Step)
				wiz.Post("/back", r.handlers.Will.Back)
				wiz.Post("/reset", r.handlers.Will.Reset)
				wiz.Post("/generate", r.handlers.Will.WizardGenerate)
			})
		})

		// Property queries
		api.Post("/queries", r.handlers.Queries.Submit)

		// Rights education
		api.Route("/rights", func(rights chi.Router) {
			rights.Get("/", r.handlers.Rights.List)
			rights.Get("/{category}", r.handlers.Rights.Get)
		})

		// Staff routes
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(apimiddleware.AdminAuth(r.config.JWT))
			admin.Get("/queries", r.handlers.Admin.ListQueries)
			admin.Get("/queries/{queryID}", r.handlers.Admin.GetQuery)
			admin.Patch("/queries/{queryID}/status", r.handlers.Admin.UpdateStatus)
		})
	})

	return router
}
