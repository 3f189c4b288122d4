package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
)

// RateLimiter returns isAllowed, attempts left, seconds to wait.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

// RateLimit throttles per client IP under the given scope. A limiter
// failure lets the request through.
func RateLimit(limiter RateLimiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFromContext(r.Context())
			key := scope + ":" + clientIP(r)

			allowed, remaining, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("Rate limiter unavailable", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				response.Error(w, errors.TooManyRequestsError("Too many requests").
					WithDetail("Try again in "+strconv.Itoa(retryAfter)+" seconds"))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
