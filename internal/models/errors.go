package models

import "errors"

// Custom errors
var (
	ErrNilRound       = errors.New("round data is required")
	ErrMalformedRound = errors.New("malformed round data")
	ErrInvalidChoice  = errors.New("invalid pirate choice")
	ErrInvalidBinary  = errors.New("invalid bet binary")
)
