package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/bot/handlers"
	errors "github.com/Proton-105/webapp-bot/internal/errors"
	"github.com/Proton-105/webapp-bot/pkg/logger"
)

// correlationIDKey is the telebot.Context key holding the per-update correlation id.
const correlationIDKey = "correlation_id"

// CorrelationMiddleware tags every update with a correlation id used by logs and error reports.
func CorrelationMiddleware(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		if c != nil {
			if id, _ := c.Get(correlationIDKey).(string); id == "" {
				c.Set(correlationIDKey, uuid.NewString())
			}
		}
		return next(c)
	}
}

// RecoveryMiddleware catches panics and reports them via the centralized handler.
// The update is dropped; no message is sent to the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					if errHandler != nil {
						errHandler.Report(updateContext(c), errors.NewInternalError(fmt.Errorf("panic recovered: %v", r)))
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware reports handler failures. Errors are never translated into
// replies: a failed delivery would most likely fail again.
func ErrorHandlingMiddleware(errHandler *errors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if errHandler != nil {
				errHandler.Report(updateContext(c), err)
				return nil
			}

			return err
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()

			var userID, chatID int64
			var action, correlationID string
			if c != nil {
				if c.Sender() != nil {
					userID = c.Sender().ID
				}
				if c.Chat() != nil {
					chatID = c.Chat().ID
				}
				action, _ = ParseCommand(c.Text())
				correlationID, _ = c.Get(correlationIDKey).(string)
			}

			log.Info("handling update",
				slog.Int64("user_id", userID),
				slog.Int64("chat_id", chatID),
				slog.String("action", action),
				slog.String("correlation_id", correlationID),
			)
			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.String("correlation_id", correlationID),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

func updateContext(c telebot.Context) context.Context {
	ctx := context.Background()
	if c == nil {
		return ctx
	}

	if id, _ := c.Get(correlationIDKey).(string); id != "" {
		return logger.WithCorrelationID(ctx, id)
	}
	return ctx
}
