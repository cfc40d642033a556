package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config holds middleware configuration.
type Config struct {
	Logger *zap.Logger

	CORS *CORSConfig

	RateLimit      rate.Limit
	RateLimitBurst int

	RequestTimeout time.Duration

	// BypassPrefixes lists path prefixes excluded from rate limiting and
	// the request timeout. Webhook endpoints must acknowledge with 200
	// unconditionally, so throttling responses are not allowed there.
	BypassPrefixes []string
}

// Chain creates a middleware chain with all configured middleware.
func Chain(config *Config) func(http.Handler) http.Handler {
	rateLimiter := NewRateLimiter(config.RateLimit, config.RateLimitBurst)

	return func(handler http.Handler) http.Handler {
		// Apply middleware in order (outer to inner)
		h := handler

		h = bypassPrefixes(config.BypassPrefixes, Timeout(config.RequestTimeout))(h)

		h = bypassPrefixes(config.BypassPrefixes, rateLimiter.Middleware())(h)

		if config.CORS != nil {
			h = CORS(config.CORS)(h)
		}

		h = Recovery(config.Logger)(h)

		h = RequestID(h)

		h = Logger(config.Logger)(h)

		return h
	}
}

// bypassPrefixes wraps mw so that requests whose path matches one of the
// prefixes go straight to the next handler.
func bypassPrefixes(prefixes []string, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if len(prefixes) == 0 {
		return mw
	}
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range prefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
