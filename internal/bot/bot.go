package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/bot/handlers"
	"github.com/Proton-105/webapp-bot/internal/domain"
	errors "github.com/Proton-105/webapp-bot/internal/errors"
	"github.com/Proton-105/webapp-bot/internal/idempotency"
	"github.com/Proton-105/webapp-bot/internal/middleware"
	"github.com/Proton-105/webapp-bot/pkg/config"
)

// Bot wraps telebot.Bot with the launch command wiring.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	router     *Router
	errHandler *errors.Handler
	store      idempotency.Store
}

// Option adjusts telebot settings before the bot is created.
type Option func(*telebot.Settings)

// WithSynchronous runs handlers on the dispatching goroutine, so ProcessUpdate returns
// only after the handler finished.
func WithSynchronous() Option {
	return func(s *telebot.Settings) {
		s.Synchronous = true
	}
}

// New builds a telegram bot instance configured according to the application settings.
// An invalid launch reply is reported before any call to the Bot API is made.
func New(cfg config.Config, log *slog.Logger, store idempotency.Store, opts ...Option) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	startHandler, err := handlers.NewStartHandler(domain.NewLaunchReplyFromConfig(cfg.WebApp), log)
	if err != nil {
		return nil, fmt.Errorf("build start handler: %w", err)
	}

	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		URL:   cfg.Bot.APIURL,
		OnError: func(err error, c telebot.Context) {
			errHandler.Report(updateContext(c), err)
		},
	}

	if cfg.Bot.IsWebhook() {
		settings.Poller = &telebot.Webhook{
			Listen:   cfg.Bot.WebhookListen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookPublicURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	for _, opt := range opts {
		opt(&settings)
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, errors.NewDeliveryError("getMe", err)
	}

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		router:     NewRouter(log),
		errHandler: errHandler,
		store:      store,
	}

	b.setupRouter(startHandler)
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.log.Info("telegram bot started",
			slog.String("username", b.telebot.Me.Username),
			slog.String("mode", b.cfg.Bot.Mode),
		)
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Shutdown adapts Stop to a lifecycle hook.
func (b *Bot) Shutdown(context.Context) error {
	b.Stop()
	return nil
}

// RegisterCommands publishes the routed commands to the Telegram command menu.
func (b *Bot) RegisterCommands() error {
	triggers := b.router.Commands()
	commands := make([]telebot.Command, 0, len(triggers))
	for _, trigger := range triggers {
		commands = append(commands, telebot.Command{
			Text:        strings.TrimPrefix(trigger, "/"),
			Description: b.cfg.Bot.Description,
		})
	}

	if err := b.telebot.SetCommands(commands); err != nil {
		return errors.NewDeliveryError("setMyCommands", err)
	}

	return nil
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(startHandler handlers.Handler) {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(CorrelationMiddleware)
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(middleware.Idempotency(b.store, b.cfg.Idempotency.TTL, b.log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(b.cfg.Bot.CommandTrigger(), startHandler)
}

func (b *Bot) registerTelebotHandlers() {
	b.telebot.Handle(telebot.OnText, b.router.Route)
}
