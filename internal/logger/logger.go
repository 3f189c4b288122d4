package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/config"
)

// New builds the JSON process logger, tags every line with the service
// and environment, and installs it as the slog default.
func New(cfg *config.Config) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

func NewWithWriter(w io.Writer, cfg *config.Config) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	base := slog.New(h).With(
		slog.String("service", cfg.Otel.ServiceName),
		slog.String("env", cfg.Env),
	)

	slog.SetDefault(base)

	return base
}

func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
