package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/bot/keyboard"
	"github.com/Proton-105/webapp-bot/internal/domain"
	apperrors "github.com/Proton-105/webapp-bot/internal/errors"
	"github.com/Proton-105/webapp-bot/pkg/metrics"
)

// NewStartHandler returns the launch command handler. It answers every invocation with
// exactly one message on the originating chat: the reply text plus its web app buttons.
//
// The reply is validated and rendered once here; an invalid reply is a configuration error.
// The rendered markup is shared read-only by every invocation, so the handler may be called
// concurrently.
func NewStartHandler(reply domain.Reply, log *slog.Logger) (Handler, error) {
	if log == nil {
		log = slog.Default()
	}

	if err := reply.Validate(); err != nil {
		return nil, err
	}

	markup, err := keyboard.Render(reply)
	if err != nil {
		return nil, apperrors.NewConfigError("render launch keyboard", err)
	}

	return func(c telebot.Context) error {
		if c == nil || c.Chat() == nil {
			log.Warn("start handler invoked without chat")
			return nil
		}

		chatID := c.Chat().ID
		if err := c.Send(reply.Text, markup); err != nil {
			metrics.RecordReply(false)
			return apperrors.NewDeliveryError("sendMessage", err)
		}

		metrics.RecordReply(true)
		log.Debug("launch reply sent", slog.Int64("chat_id", chatID))

		return nil
	}, nil
}
