// Package repository defines the profile store interface and errors.
//
// The store is the engine-facing face of the external asset store: it is the
// sole durability boundary for competency profiles and saved per-tool form
// state. The engine holds no other authoritative state across restarts.
package repository

import (
	"context"

	"github.com/revgate/revgate/internal/domain/ledger"
)

// SavedProgress is one customer's persisted form state for one tool.
type SavedProgress struct {
	CustomerID string
	ToolKey    string
	State      map[string]string
}

// Store provides read/write access to persisted engine state.
type Store interface {
	// SaveProfile persists a competency profile snapshot.
	SaveProfile(ctx context.Context, profile ledger.Profile) error

	// Profile loads the persisted snapshot for a customer.
	// Returns ErrNotFound if the customer is unknown.
	Profile(ctx context.Context, customerID string) (ledger.Profile, error)

	// SaveProgress persists saved form state for (customer, tool).
	SaveProgress(ctx context.Context, progress SavedProgress) error

	// Progress loads saved form state for (customer, tool).
	// Returns ErrNotFound when nothing has been saved.
	Progress(ctx context.Context, customerID, toolKey string) (SavedProgress, error)

	// Count returns the number of customers with a persisted profile.
	Count(ctx context.Context) int
}
