package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/webapp-bot/pkg/logger"
	"github.com/Proton-105/webapp-bot/pkg/metrics"
)

// Handler reports classified errors to logs, metrics and Sentry.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Report records err and returns the AppError it was classified as.
// Unclassified errors are reported as high severity without a code.
func (h *Handler) Report(ctx context.Context, err error) *AppError {
	if err == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr == nil {
		appErr = &AppError{Message: err.Error(), Severity: SeverityHigh, cause: err}
	}

	attrs := []any{
		slog.String("code", appErr.Code),
		slog.String("severity", string(appErr.Severity)),
		slog.Any("error", err),
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	if appErr.Code == "" {
		h.log.ErrorContext(ctx, "unknown error", attrs...)
	} else {
		h.log.ErrorContext(ctx, "application error", attrs...)
	}

	errType := appErr.Code
	if errType == "" {
		errType = "unknown"
	}
	metrics.RecordError(errType, string(appErr.Severity))

	if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
		h.sendToSentry(appErr, err)
	}

	return appErr
}

func (h *Handler) sendToSentry(appErr *AppError, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		if appErr.Code != "" {
			scope.SetTag("code", appErr.Code)
		}
		scope.SetTag("severity", string(appErr.Severity))

		sentry.CaptureException(err)
	})
}
