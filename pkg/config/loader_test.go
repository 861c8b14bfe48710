package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST-token"

func missingConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestLoadFile_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", testToken)
	t.Setenv("WEBAPP_URL", "https://example.com/app")

	cfg, err := LoadFile(missingConfigPath(t), "test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, testToken, cfg.Bot.Token)
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, "/start", cfg.Bot.CommandTrigger())
	assert.Equal(t, 10*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, "https://example.com/app", cfg.WebApp.URL)
	assert.Equal(t, "Open App", cfg.WebApp.ButtonText)
	assert.Equal(t, "Tap to open the app:", cfg.WebApp.PromptText)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "test", cfg.Sentry.Environment)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFile_RejectsInvalidWebAppURL(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{name: "missing", url: ""},
		{name: "plain http", url: "http://example.com/app"},
		{name: "relative", url: "/app"},
		{name: "no host", url: "https:///app"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", testToken)
			t.Setenv("WEBAPP_URL", tc.url)

			_, err := LoadFile(missingConfigPath(t), "test")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "WebApp.URL")
		})
	}
}

func TestLoadFile_RequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("WEBAPP_URL", "https://example.com/app")

	_, err := LoadFile(missingConfigPath(t), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bot.Token")
}

func TestLoadFile_YAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staging.yaml")
	content := []byte(`
bot:
  token: from-file
  command: launch
  timeout: 30s
webapp:
  url: https://file.example.com
  button_text: Launch
log:
  format: text
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("BOT_TOKEN", testToken)

	cfg, err := LoadFile(path, "staging")
	require.NoError(t, err)

	assert.Equal(t, testToken, cfg.Bot.Token)
	assert.Equal(t, "/launch", cfg.Bot.CommandTrigger())
	assert.Equal(t, 30*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, "https://file.example.com", cfg.WebApp.URL)
	assert.Equal(t, "Launch", cfg.WebApp.ButtonText)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFile_WebhookRequiresPublicURL(t *testing.T) {
	t.Setenv("BOT_TOKEN", testToken)
	t.Setenv("WEBAPP_URL", "https://example.com/app")
	t.Setenv("BOT_MODE", "webhook")

	_, err := LoadFile(missingConfigPath(t), "test")
	require.Error(t, err)

	t.Setenv("BOT_WEBHOOK_PUBLIC_URL", "https://bot.example.com/hook")
	cfg, err := LoadFile(missingConfigPath(t), "test")
	require.NoError(t, err)
	assert.True(t, cfg.Bot.IsWebhook())
}

func TestCheckHTTPSURL(t *testing.T) {
	assert.NoError(t, CheckHTTPSURL("https://example.com/app"))
	assert.Error(t, CheckHTTPSURL("http://example.com/app"))
	assert.Error(t, CheckHTTPSURL("example.com"))
	assert.Error(t, CheckHTTPSURL("https://"))
	assert.Error(t, CheckHTTPSURL("://bad"))
}
