// Package roundsource fetches Food Club round data and the current round
// number from an HTTP host or a local directory.
package roundsource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/foodclub/internal/models"
)

// Source defines the interface for fetching round data
type Source interface {
	// FetchRound retrieves the data of one round
	FetchRound(ctx context.Context, round int) (*models.RoundData, error)

	// CurrentRound returns the number of the round currently open
	CurrentRound(ctx context.Context) (int, error)

	// Name returns the name of the source
	Name() string
}

// SourceError represents errors from round source operations
type SourceError struct {
	Source  string // Source name
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e SourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's code
func (e SourceError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && target == sentinel
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeUnknown           = "unknown"
)

// Sentinel errors matched by SourceError codes
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("round not found")
	ErrInvalidData       = errors.New("invalid round data")
	ErrNetworkError      = errors.New("network error")
	ErrServerError       = errors.New("server error")
)

var codeSentinels = map[string]error{
	ErrCodeRateLimitExceeded: ErrRateLimitExceeded,
	ErrCodeNotFound:          ErrNotFound,
	ErrCodeInvalidData:       ErrInvalidData,
	ErrCodeNetworkError:      ErrNetworkError,
	ErrCodeServerError:       ErrServerError,
}

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func roundMessage(round int) string {
	return fmt.Sprintf("round %d", round)
}
