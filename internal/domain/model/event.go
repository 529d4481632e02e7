// Package model contains domain models passed between layers.
package model

import "time"

// Category names one of the three competency progression tracks.
type Category string

// Competency categories.
const (
	CategoryCustomerAnalysis   Category = "customerAnalysis"
	CategoryValueCommunication Category = "valueCommunication"
	CategorySalesExecution     Category = "salesExecution"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCustomerAnalysis, CategoryValueCommunication, CategorySalesExecution:
		return true
	}
	return false
}

// ToolID identifies a gated analysis tool.
type ToolID string

// Gated tools, in progression order.
const (
	ToolICP            ToolID = "icp"
	ToolCostCalculator ToolID = "costCalculator"
	ToolBusinessCase   ToolID = "businessCase"
)

// AwardEvent is an atomic competency point grant. Immutable once created;
// the EventID is the idempotency key and each event is applied at most once.
type AwardEvent struct {
	EventID    string    // unique id for idempotency
	CustomerID string    // profile the points accrue to
	Points     float64   // must be > 0
	Category   Category  // progression track receiving the points
	Reason     string    // human-readable grant reason
	TS         time.Time // grant timestamp
}
