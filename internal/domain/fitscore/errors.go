package fitscore

import "errors"

// Sentinel kinds for fit scoring errors.
var (
	// ErrInvalidCriteria marks a criteria set whose weights are negative or
	// do not sum to 100. Configuration error: fail fast, never renormalize.
	ErrInvalidCriteria = errors.New("invalid criteria set")

	// ErrEmptyEntity marks a missing entity name.
	ErrEmptyEntity = errors.New("entity name must not be empty")

	// ErrNoScore marks a strategy that has no score for a criterion.
	ErrNoScore = errors.New("no score available for criterion")
)
