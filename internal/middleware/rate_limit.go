package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/evyataryagoni/geoconsole/internal/limiter"
	"github.com/evyataryagoni/geoconsole/internal/metrics"
	"github.com/evyataryagoni/geoconsole/internal/models"
)

// RateLimitMessage is the error body sent with 429 responses
const RateLimitMessage = "Rate limit exceeded. Please try again later."

// RateLimitMiddleware enforces rate limiting per client IP (returns 429 when exceeded)
//
// Parameters:
//   - lim: the limiter to consult
//   - name: limiter label for metrics ("api", "bulk")
//   - m: metrics collector (optional, can be nil)
func RateLimitMiddleware(lim limiter.Limiter, name string, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow(ClientIP(r)) {
				if m != nil {
					m.RateLimited.WithLabelValues(name).Inc()
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.ErrorResponse{Error: RateLimitMessage})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the client address used as rate limit key
// Priority: X-Real-IP > first X-Forwarded-For entry > RemoteAddr without port
func ClientIP(r *http.Request) string {
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	// X-Forwarded-For can contain multiple IPs (format: "client, proxy1, proxy2")
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
