package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/webapp-bot/internal/bot"
	"github.com/Proton-105/webapp-bot/internal/health"
	"github.com/Proton-105/webapp-bot/internal/idempotency"
	"github.com/Proton-105/webapp-bot/internal/lifecycle"
	"github.com/Proton-105/webapp-bot/internal/middleware"
	"github.com/Proton-105/webapp-bot/pkg/config"
	"github.com/Proton-105/webapp-bot/pkg/graceful"
	"github.com/Proton-105/webapp-bot/pkg/logger"
	"github.com/Proton-105/webapp-bot/pkg/metrics"
	redisclient "github.com/Proton-105/webapp-bot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "webapp-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	log := logger.New(cfg.Log, cfg.Sentry.Enabled)
	slog.SetDefault(log)

	log.Info("starting webapp launcher bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("command", cfg.Bot.CommandTrigger()),
		slog.String("webapp_url", cfg.WebApp.URL),
	)

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log, 2*time.Second)

	var store idempotency.Store
	if cfg.Redis.Enabled {
		rdb, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisStore := idempotency.NewRedisStore(rdb, log)
		store = redisStore
		checker.AddCheck("redis", redisStore)
		shutdown.Register("redis", func(context.Context) error { return rdb.Close() })
	} else {
		memStore := idempotency.NewMemoryStore()
		store = memStore
		go idempotency.NewCleaner(memStore, log, time.Minute).Run(ctx)
	}

	b, err := bot.New(*cfg, log, store)
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	shutdown.Register("telegram", b.Shutdown)

	if err := b.RegisterCommands(); err != nil {
		log.Warn("failed to publish bot commands", slog.Any("error", err))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/healthz", health.LivenessHandler())
	mux.Handle("/readyz", checker.ReadinessHandler())

	opsServer := graceful.NewServer(log, cfg.Server.Port, logger.Middleware(middleware.New(log)(mux)), cfg.Server.ShutdownTimeout)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- opsServer.ListenAndServe(ctx)
	}()

	go b.Start()

	stopErr := waitForStop(ctx, serverErr)
	if stopErr != nil {
		log.Error("ops server stopped", slog.Any("error", stopErr))
	}
	stop()

	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			if !sentry.Flush(2 * time.Second) {
				return errors.New("sentry flush timed out")
			}
			return nil
		})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown completed with errors", slog.Any("error", err))
	}

	if stopErr != nil {
		return fmt.Errorf("ops server: %w", stopErr)
	}

	log.Info("webapp launcher bot stopped")
	return nil
}

// waitForStop blocks until a shutdown signal arrives or the ops server exits on its own.
// The server's error is returned so a failed bind is not mistaken for a clean stop.
func waitForStop(ctx context.Context, serverErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return err
	}
}
