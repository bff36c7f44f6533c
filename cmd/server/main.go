package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/config"
	"github.com/evyataryagoni/geoconsole/internal/handler"
	"github.com/evyataryagoni/geoconsole/internal/limiter"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/metrics"
	"github.com/evyataryagoni/geoconsole/internal/router"
	"github.com/evyataryagoni/geoconsole/internal/service"
	"github.com/evyataryagoni/geoconsole/internal/store"
	"github.com/evyataryagoni/geoconsole/internal/upstream"
	"github.com/evyataryagoni/geoconsole/internal/view"
	"github.com/prometheus/client_golang/prometheus"
)

// shutdownTimeout bounds how long in-flight requests may take after a signal
const shutdownTimeout = 15 * time.Second

// @title           Geo Console API
// @version         1.0
// @description     Console front end for a remote geo-query service: polygon queries, paged results, CSV export and test-data helpers

// @contact.name   Evyatar Yagoni
// @contact.email  evyatar@example.com

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Initialize components
	appLogger := setupLogger(appConfig)
	dataStore := setupDataStore(appConfig, appLogger)

	apiLimiter := setupRateLimiter(appConfig, "api", appConfig.RateLimit, appConfig.RateLimitWindow, appConfig.RequestsPerSecond(), appLogger)
	defer apiLimiter.Close()
	bulkLimiter := setupRateLimiter(appConfig, "bulk", appConfig.BulkRateLimit, appConfig.BulkRateLimitWindow, appConfig.BulkRequestsPerSecond(), appLogger)
	defer bulkLimiter.Close()

	metricsCollector := setupMetrics(appLogger)

	// Build application layers
	geoClient := upstream.NewClient(appConfig.GeoServiceURL, appConfig.GeoServiceTimeout, metricsCollector, appLogger)
	consoleService := service.NewConsoleService(geoClient, dataStore, metricsCollector, appLogger)
	defer consoleService.Close()

	renderer, err := view.NewRenderer()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to load console template")
	}

	appRouter := router.SetupRouter(router.Config{
		Console:       handler.NewConsoleHandler(consoleService, appLogger),
		UI:            handler.NewUIHandler(consoleService, renderer, appLogger),
		APILimiter:    apiLimiter,
		BulkLimiter:   bulkLimiter,
		SessionCookie: appConfig.SessionCookie,
		SessionTTL:    appConfig.SessionTTL,
		Metrics:       metricsCollector,
		Logger:        appLogger,
	})

	// Start server
	if err := startServer(appConfig, appRouter, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("Server failed")
	}
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting Geo Console Server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("geo_service_url", appConfig.GeoServiceURL).
		Dur("geo_service_timeout", appConfig.GeoServiceTimeout).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Str("datastore_type", appConfig.DatastoreType).
		Dur("session_ttl", appConfig.SessionTTL).
		Msg("Configuration loaded")

	return appLogger
}

// setupDataStore initializes the session store based on configuration
// Supports memory, MySQL, and Redis backends
func setupDataStore(appConfig *config.Config, log *logger.Logger) store.Store {
	var dataStore store.Store
	var err error

	switch appConfig.DatastoreType {
	case "memory":
		dataStore = store.NewMemoryStore(appConfig.SessionTTL)

	case "mysql":
		dataStore, err = store.NewMySQLStore(appConfig.MySQLDSN, appConfig.SessionTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MySQL store")
		}

	case "redis":
		dataStore, err = store.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB, appConfig.SessionTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis store")
		}

	default:
		log.Fatal().Str("type", appConfig.DatastoreType).Msg("Unknown datastore type")
	}

	log.Info().Str("type", appConfig.DatastoreType).Msg("Session store initialized")
	return dataStore
}

// setupRateLimiter initializes one named rate limiter
// Supports in-memory and Redis-based rate limiting
func setupRateLimiter(appConfig *config.Config, name string, limit, windowSeconds int, rate float64, log *logger.Logger) limiter.Limiter {
	window := time.Duration(windowSeconds) * time.Second

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:          appConfig.RateLimitType,
		Name:          name,
		Limit:         limit,
		Window:        window,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
		Logger:        log,
	})
	if err != nil {
		log.Fatal().Err(err).Str("limiter", name).Msg("Failed to initialize rate limiter")
	}

	log.Info().
		Str("limiter", name).
		Str("type", appConfig.RateLimitType).
		Int("limit", limit).
		Dur("window", window).
		Float64("requests_per_second", rate).
		Msg("Rate limiter initialized")

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New(prometheus.DefaultRegisterer)
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer serves until SIGINT/SIGTERM, then drains in-flight requests
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) error {
	server := &http.Server{
		Addr:              appConfig.Addr(),
		Handler:           appRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("port", appConfig.Port).
		Str("console", "http://localhost:"+appConfig.Port+"/").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Str("swagger", "http://localhost:"+appConfig.Port+"/swagger/index.html").
		Msg("Server is running")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
