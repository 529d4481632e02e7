package projection

import "errors"

// Sentinel kinds for projection errors.
var (
	// ErrInsufficientData marks assumptions missing revenue or deal size.
	// The caller surfaces this as a field-level validation message.
	ErrInsufficientData = errors.New("insufficient data")
)
