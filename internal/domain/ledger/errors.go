package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrDuplicateEvent marks an award event whose id was already applied.
	// The first application stands; callers log the duplicate once.
	ErrDuplicateEvent = errors.New("duplicate award event")

	// ErrInvalidAward marks an event with missing id, non-positive points,
	// or an unknown category.
	ErrInvalidAward = errors.New("invalid award event")

	// ErrProfileNotFound marks a customer with no profile in the ledger.
	ErrProfileNotFound = errors.New("profile not found")
)
