// Package metrics exposes Prometheus instruments for bot activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	repliesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replies_sent_total",
			Help: "Total number of replies handed to the Telegram API labeled by outcome",
		},
		[]string{"status"},
	)
	duplicateUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_updates_total",
			Help: "Total number of redelivered updates skipped by de-duplication",
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// CommandsCounter returns the bot_commands_total series for the label pair.
func CommandsCounter(command, status string) prometheus.Counter {
	return botCommandsTotal.WithLabelValues(command, status)
}

// RepliesCounter returns the replies_sent_total series for status ("ok" or "error").
func RepliesCounter(status string) prometheus.Counter {
	return repliesSentTotal.WithLabelValues(status)
}

// RecordReply counts one send attempt; ok reports whether the platform accepted it.
func RecordReply(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	repliesSentTotal.WithLabelValues(status).Inc()
}

// RecordDuplicateUpdate counts an update that was already handled.
func RecordDuplicateUpdate() {
	duplicateUpdatesTotal.Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
