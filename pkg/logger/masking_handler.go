package logger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

const maskedValue = "***"

var sensitiveKeys = []string{
	"password",
	"token",
	"bot_token",
	"secret",
	"api_key",
	"authorization",
	"dsn",
}

// botTokenPattern matches Telegram bot tokens, which transport errors embed in request URLs.
var botTokenPattern = regexp.MustCompile(`\d{5,}:[A-Za-z0-9_-]{20,}`)

// MaskingHandler wraps a slog.Handler and masks sensitive attributes before delegating.
type MaskingHandler struct {
	next slog.Handler
}

// NewMaskingHandler creates a handler that masks sensitive fields before passing records downstream.
func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

// Enabled reports whether the handler handles records at the given level.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// WithAttrs returns a new handler with additional, masked attributes.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		masked[i] = maskAttr(attr)
	}
	return &MaskingHandler{next: h.next.WithAttrs(masked)}
}

// WithGroup returns a new handler with an appended group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

// Handle applies masking to sensitive attributes and delegates to the wrapped handler.
func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, MaskString(record.Message), record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr))
		return true
	})

	return h.next.Handle(ctx, masked)
}

// MaskString replaces bot tokens found in s.
func MaskString(s string) string {
	return botTokenPattern.ReplaceAllString(s, maskedValue)
}

func maskAttr(attr slog.Attr) slog.Attr {
	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, maskedValue)
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, MaskString(value.String()))
	case slog.KindGroup:
		group := value.Group()
		masked := make([]any, len(group))
		for i, inner := range group {
			masked[i] = maskAttr(inner)
		}
		return slog.Group(attr.Key, masked...)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok && err != nil {
			text := err.Error()
			if botTokenPattern.MatchString(text) {
				return slog.String(attr.Key, MaskString(text))
			}
		}
	}

	return slog.Attr{Key: attr.Key, Value: value}
}

func isSensitiveKey(key string) bool {
	for _, sensitive := range sensitiveKeys {
		if strings.EqualFold(key, sensitive) {
			return true
		}
	}
	return false
}
