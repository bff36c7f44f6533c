package middleware

import (
	"net/http"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// quietPaths are logged at debug level, they are polled by infrastructure
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggingMiddleware logs HTTP requests with structured data
func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Get request ID from context (set by chi's RequestID middleware)
			reqLog := log.WithRequestID(middleware.GetReqID(r.Context()))

			quiet := quietPaths[r.URL.Path]
			startEvent := reqLog.Info()
			if quiet {
				startEvent = reqLog.Debug()
			}
			startEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("Request started")

			next.ServeHTTP(ww, r)

			status := statusOf(ww)

			// Determine log level based on status code
			logEvent := reqLog.Info()
			switch {
			case status >= 500:
				logEvent = reqLog.Error()
			case status >= 400:
				logEvent = reqLog.Warn()
			case quiet:
				logEvent = reqLog.Debug()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Msg("Request completed")
		})
	}
}
