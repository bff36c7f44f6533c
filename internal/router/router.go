package router

import (
	"net/http"
	"time"

	_ "github.com/evyataryagoni/geoconsole/docs" // Swagger docs
	"github.com/evyataryagoni/geoconsole/internal/handler"
	"github.com/evyataryagoni/geoconsole/internal/limiter"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/metrics"
	custommiddleware "github.com/evyataryagoni/geoconsole/internal/middleware"
	v1 "github.com/evyataryagoni/geoconsole/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Config carries everything the router needs
type Config struct {
	Console *handler.ConsoleHandler
	UI      *handler.UIHandler

	APILimiter  limiter.Limiter // applied to every request
	BulkLimiter limiter.Limiter // applied to /v1/insert and /v1/delete-random (optional, can be nil)

	SessionCookie string
	SessionTTL    time.Duration

	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// SetupRouter creates and configures the Chi router with all middleware and routes
// This separates routing logic from the main application setup
//
// Returns:
//   - chi.Router: configured router ready to use
func SetupRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	// Apply global middleware - these run on every request
	// Order matters! RequestID should be first, then logging, then rate limiting
	r.Use(middleware.RequestID)                                                     // Add unique request ID to each request
	r.Use(middleware.RealIP)                                                        // Get real client IP (handles proxies/load balancers)
	r.Use(custommiddleware.LoggingMiddleware(cfg.Logger))                           // Structured logging
	r.Use(middleware.Recoverer)                                                     // Recover from panics and return 500
	r.Use(custommiddleware.RateLimitMiddleware(cfg.APILimiter, "api", cfg.Metrics)) // Rate limiting per IP
	r.Use(custommiddleware.MetricsMiddleware(cfg.Metrics))                          // Collect Prometheus metrics

	// Everything a visitor interacts with is tied to a session cookie
	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.SessionMiddleware(cfg.SessionCookie, cfg.SessionTTL))

		var bulkLimit func(http.Handler) http.Handler
		if cfg.BulkLimiter != nil {
			bulkLimit = custommiddleware.RateLimitMiddleware(cfg.BulkLimiter, "bulk", cfg.Metrics)
		}

		// Mount v1 API routes under /v1 prefix
		r.Mount("/v1", v1.SetupRoutes(cfg.Console, bulkLimit))

		// HTML console, form posts answer with a redirect to "/"
		r.Get("/", cfg.UI.Index)
		r.Post("/ui/query", cfg.UI.Query)
		r.Post("/ui/page/{n}", cfg.UI.GoToPage)
		r.Post("/ui/delete/{id}", cfg.UI.DeleteRecord)
	})

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI endpoint - API documentation
	// Access at: http://localhost:3000/swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}

// healthCheckHandler is a simple health check endpoint
// Returns 200 OK if the service is running
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
