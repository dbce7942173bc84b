// Package logger provides round source logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SourceLogger provides dedicated logging for round data fetches.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new round source logger. A nil base discards output.
func NewSourceLogger(baseLogger logrus.FieldLogger, source string) *SourceLogger {
	if baseLogger == nil {
		baseLogger = Discard()
	}
	return &SourceLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "roundsource",
			"source":    source,
		}),
	}
}

// LogFetch logs a completed round fetch.
func (sl *SourceLogger) LogFetch(round int, cached bool, latencyMs float64) {
	sl.WithFields(logrus.Fields{
		"round":      round,
		"cache_hit":  cached,
		"latency_ms": latencyMs,
	}).Debug("Round fetched")
}

// LogFetchError logs a failed round fetch.
func (sl *SourceLogger) LogFetchError(round int, err error) {
	sl.WithFields(logrus.Fields{
		"round": round,
		"error": err.Error(),
	}).Error("Round fetch failed")
}

// LogCurrentRound logs the current round number lookup.
func (sl *SourceLogger) LogCurrentRound(round int, cached bool) {
	sl.WithFields(logrus.Fields{
		"round":     round,
		"cache_hit": cached,
	}).Debug("Current round resolved")
}
