package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds runtime configuration for the web app launcher bot.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Bot         BotConfig         `mapstructure:"bot"`
	WebApp      WebAppConfig      `mapstructure:"webapp"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
}

// BotConfig describes how the bot connects to the Telegram Bot API.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	APIURL  string        `mapstructure:"api_url" validate:"required,url"`
	Mode    string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Command string        `mapstructure:"command" validate:"required,excludes=/"`

	// Description is shown next to the command in the Telegram command menu.
	Description string `mapstructure:"description"`

	WebhookListen    string `mapstructure:"webhook_listen"`
	WebhookPublicURL string `mapstructure:"webhook_public_url" validate:"required_if=Mode webhook,omitempty,https_url"`
}

// WebAppConfig describes the reply sent for the launch command.
//
// URL must use https and be registered for the bot with BotFather (/setdomain),
// otherwise Telegram rejects the button at send time.
type WebAppConfig struct {
	URL        string `mapstructure:"url" validate:"required,https_url"`
	ButtonText string `mapstructure:"button_text" validate:"required"`
	PromptText string `mapstructure:"prompt_text" validate:"required"`
}

// ServerConfig configures the operational HTTP server (metrics and health probes).
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// File enables rotation through lumberjack when set; stdout is used otherwise.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// RedisConfig configures the optional Redis connection used for update de-duplication.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// IdempotencyConfig controls how long processed update keys are remembered.
type IdempotencyConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// IsWebhook reports whether updates are received through a webhook instead of long polling.
func (c BotConfig) IsWebhook() bool {
	return c.Mode == "webhook"
}

// CommandTrigger returns the slash-prefixed command the bot responds to.
func (c BotConfig) CommandTrigger() string {
	return "/" + strings.TrimPrefix(c.Command, "/")
}

// CheckHTTPSURL reports an error unless raw is an absolute https URL with a host.
func CheckHTTPSURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !u.IsAbs() || u.Scheme != "https" {
		return fmt.Errorf("url %q must use the https scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
