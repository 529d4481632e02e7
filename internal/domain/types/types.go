// Package types contains common types used across the application
package types

// Progress reports how far a customer is from unlocking a tool,
// expressed in the same 0-100 units as the gating category score.
type Progress struct {
	Completed       float64 `json:"completed"`
	Required        float64 `json:"required"`
	NextRequirement string  `json:"next_requirement"`
}

// ToolAccess is the per-tool unlock decision surfaced to routing/UI.
type ToolAccess struct {
	Tool     string   `json:"tool"`
	Unlocked bool     `json:"has_access"`
	Reason   string   `json:"reason"`
	Progress Progress `json:"progress"`
}
