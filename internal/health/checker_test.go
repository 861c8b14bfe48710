package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_ReadinessHandler(t *testing.T) {
	checker := NewChecker(testLogger(), time.Second)
	checker.AddCheck("ok", CheckFunc(func(context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	checker.AddCheck("broken", CheckFunc(func(context.Context) error { return errors.New("down") }))

	rec = httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"ok": "OK", "broken": "down"}, body)
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTelegramChecker(t *testing.T) {
	assert.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))
	assert.Error(t, NewTelegramChecker(&telebot.Bot{}).HealthCheck(context.Background()))

	ready := &telebot.Bot{Me: &telebot.User{ID: 42, Username: "launcher_bot"}}
	assert.NoError(t, NewTelegramChecker(ready).HealthCheck(context.Background()))
}
