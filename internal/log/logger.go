// Package log configures structured logging on top of log/slog. Every
// logger carries a component attribute so server, worker and llm lines
// can be told apart in mixed output.
package log

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	// Level as text: debug, info, warn, error. Unknown values mean info.
	Level string
	// Format is "text" (default) or "json".
	Format string
}

// New builds the root logger and installs it as the slog default.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ForComponent returns a child logger tagged with a component attribute.
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
