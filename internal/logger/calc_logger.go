// Package logger provides calculator-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/foodclub/internal/models"
)

// CalcLogger provides dedicated logging for round calculations.
type CalcLogger struct {
	*logrus.Entry
}

// NewCalcLogger creates a new calculator logger. A nil base discards output.
func NewCalcLogger(baseLogger logrus.FieldLogger) *CalcLogger {
	if baseLogger == nil {
		baseLogger = Discard()
	}
	return &CalcLogger{
		Entry: baseLogger.WithField("component", "calculator"),
	}
}

// LogCalculation logs a completed calculation.
func (cl *CalcLogger) LogCalculation(round int, model string, activeBets int, durationMs float64) {
	cl.WithFields(logrus.Fields{
		"round":       round,
		"model":       model,
		"active_bets": activeBets,
		"duration_ms": durationMs,
	}).Info("Calculation completed")
}

// LogNotCalculated logs a round that could not be calculated.
func (cl *CalcLogger) LogNotCalculated(round int, err error) {
	cl.WithFields(logrus.Fields{
		"round": round,
		"error": err.Error(),
	}).Warn("Round not calculated")
}

// LogCacheHit logs a memo cache hit.
func (cl *CalcLogger) LogCacheHit(stage, key string) {
	cl.WithFields(logrus.Fields{
		"stage":     stage,
		"cache_key": key,
		"cache_hit": true,
	}).Debug("Memo cache hit")
}

// LogCacheMiss logs a memo cache miss.
func (cl *CalcLogger) LogCacheMiss(stage, key string) {
	cl.WithFields(logrus.Fields{
		"stage":     stage,
		"cache_key": key,
		"cache_hit": false,
	}).Debug("Memo cache miss")
}

// LogInvalidation logs a cache prefix invalidation.
func (cl *CalcLogger) LogInvalidation(prefix string, removed int) {
	cl.WithFields(logrus.Fields{
		"prefix":  prefix,
		"removed": removed,
	}).Debug("Memo cache invalidated")
}

// LogDiagnostic logs an input value that was clamped or ignored.
func (cl *CalcLogger) LogDiagnostic(round int, d models.Diagnostic) {
	cl.WithFields(logrus.Fields{
		"round": round,
		"field": d.Field,
		"arena": d.Arena,
		"index": d.Index,
		"value": d.Value,
	}).Warn(d.Message)
}

// LogProbabilityDeviation logs an arena whose probabilities do not sum to 1.
func (cl *CalcLogger) LogProbabilityDeviation(round int, model string, arena int, sum float64) {
	cl.WithFields(logrus.Fields{
		"round": round,
		"model": model,
		"arena": arena,
		"sum":   sum,
	}).Debug("Arena probability mass deviates from 1")
}

// LogSettlement logs the outcome of a resolved round.
func (cl *CalcLogger) LogSettlement(round, winningBinary int, hits []int, winnings int) {
	cl.WithFields(logrus.Fields{
		"round":          round,
		"winning_binary": winningBinary,
		"hits":           hits,
		"winnings":       winnings,
	}).Info("Round settled")
}
