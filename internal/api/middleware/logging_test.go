package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

// captureLogs swaps the default logger for a JSON one writing to a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))

	return entry
}

func TestLogging(t *testing.T) {
	t.Run("Generates a correlation id", func(t *testing.T) {
		var logger *slog.Logger
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger = middleware.LoggerFromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		})

		rr := httptest.NewRecorder()
		middleware.Logging(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		assert.NotNil(t, logger)
	})

	t.Run("Keeps the caller's correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()

		middleware.Logging(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})

	t.Run("Falls back to the default logger", func(t *testing.T) {
		assert.Equal(t, slog.Default(), middleware.LoggerFromContext(t.Context()))
	})

	t.Run("Carries the trace id", func(t *testing.T) {
		buf := captureLogs(t)

		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
			SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
			TraceFlags: trace.FlagsSampled,
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))

		middleware.Logging(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), req)

		entry := lastLine(t, buf)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
		assert.Equal(t, "WARN", entry["level"])
	})

	t.Run("Server errors log at error", func(t *testing.T) {
		buf := captureLogs(t)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		middleware.Logging(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		entry := lastLine(t, buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.EqualValues(t, 500, entry["http_status"])
	})

	t.Run("Health checks log at debug", func(t *testing.T) {
		buf := captureLogs(t)

		middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, "DEBUG", lastLine(t, buf)["level"])
	})
}
