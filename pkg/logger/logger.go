// Package logger builds the application's structured slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Proton-105/webapp-bot/pkg/config"
)

// New creates a slog.Logger according to cfg. Sensitive attributes are masked before any
// sink sees them; error records are also forwarded to Sentry when sentryEnabled is set.
func New(cfg config.LogConfig, sentryEnabled bool) *slog.Logger {
	return slog.New(NewHandler(Writer(cfg), cfg, sentryEnabled))
}

// NewHandler assembles the handler chain used by New on top of w.
func NewHandler(w io.Writer, cfg config.LogConfig, sentryEnabled bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.Level == "debug",
	}

	var base slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	if sentryEnabled {
		sentryHandler := slogsentry.Option{Level: slog.LevelError}.NewSentryHandler()
		base = NewFanoutHandler(base, sentryHandler)
	}

	return NewMaskingHandler(base)
}

// Writer returns stdout or a rotating file writer when cfg.File is set.
func Writer(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

// ParseLevel maps a textual level to slog.Level, falling back to info.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
