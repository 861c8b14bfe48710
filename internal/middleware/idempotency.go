package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/bot/handlers"
	"github.com/Proton-105/webapp-bot/internal/idempotency"
	"github.com/Proton-105/webapp-bot/pkg/metrics"
)

// Idempotency ensures handlers run at most once per Telegram update. A claim is released when
// the handler fails or panics so that a redelivery of the same update is handled again.
// Panics are re-raised for the recovery middleware.
func Idempotency(store idempotency.Store, ttl time.Duration, log *slog.Logger) handlers.Middleware {
	if store == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := ExtractIdempotencyKey(c)
			if key == "" {
				return next(c)
			}

			ctx := context.Background()

			claimed, err := store.Claim(ctx, key, ttl)
			if err != nil {
				log.Warn("idempotency store unavailable, handling update anyway", slog.String("key", key), slog.Any("error", err))
				return next(c)
			}
			if !claimed {
				log.Info("skipping duplicate update", slog.String("key", key))
				metrics.RecordDuplicateUpdate()
				return nil
			}

			release := func() {
				if releaseErr := store.Release(ctx, key); releaseErr != nil {
					log.Error("failed to release idempotency key", slog.String("key", key), slog.Any("error", releaseErr))
				}
			}

			defer func() {
				if r := recover(); r != nil {
					release()
					panic(r)
				}
			}()

			if err := next(c); err != nil {
				release()
				return err
			}

			return nil
		}
	}
}

// ExtractIdempotencyKey derives a stable key for the update behind c.
func ExtractIdempotencyKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if upd := c.Update(); upd.ID != 0 {
		return fmt.Sprintf("upd:%d", upd.ID)
	}

	if msg := c.Message(); msg != nil {
		chatID := int64(0)
		if msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		if msg.ID != 0 {
			return fmt.Sprintf("msg:%d:%d", chatID, msg.ID)
		}
	}

	return ""
}
