package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/stretchr/testify/assert"
)

type stubLimiter struct {
	allowed    bool
	remaining  int
	retryAfter int
	err        error
	keys       []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, int, int, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.remaining, s.retryAfter, s.err
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/delete", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		return req
	}

	t.Run("Success - Allowed request passes", func(t *testing.T) {
		// Arrange
		limiter := &stubLimiter{allowed: true, remaining: 4}
		rr := httptest.NewRecorder()

		// Act
		middleware.RateLimit(limiter, "upload-delete")(ok).ServeHTTP(rr, newRequest())

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "4", rr.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"upload-delete:203.0.113.7"}, limiter.keys)
	})

	t.Run("Failure - Limit exceeded", func(t *testing.T) {
		// Arrange
		limiter := &stubLimiter{allowed: false, retryAfter: 42}
		rr := httptest.NewRecorder()

		// Act
		middleware.RateLimit(limiter, "auth-start")(ok).ServeHTTP(rr, newRequest())

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "42", rr.Header().Get("Retry-After"))
		assert.Contains(t, rr.Body.String(), "TOO_MANY_REQUESTS")
	})

	t.Run("Success - Limiter outage fails open", func(t *testing.T) {
		// Arrange
		limiter := &stubLimiter{err: errors.New("redis down")}
		rr := httptest.NewRecorder()

		// Act
		middleware.RateLimit(limiter, "auth-start")(ok).ServeHTTP(rr, newRequest())

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
