package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/bot/handlers"
	"github.com/Proton-105/webapp-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(extractCommandName(c), status, time.Since(start))

		return err
	}
}

// extractCommandName keeps label cardinality bounded: only the command itself, without
// arguments or the @botname suffix, becomes a label value.
func extractCommandName(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	fields := strings.Fields(c.Text())
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "unknown"
	}

	command, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(command)
}
