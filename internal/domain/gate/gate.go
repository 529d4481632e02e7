// Package gate decides per-tool access from a competency profile snapshot.
//
// Evaluation is pure: no I/O, safe to call on every request. The rule table
// and unlock hints are static configuration, never derived at runtime.
package gate

import (
	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/internal/domain/model"
	"github.com/revgate/revgate/internal/domain/types"
)

// unlockThreshold is the category score a gating rule requires.
const unlockThreshold = 70

// Reasons surfaced with gate decisions.
const (
	ReasonAlwaysAvailable = "always available"
	ReasonUnlocked        = "unlocked"
	ReasonBelowThreshold  = "competency below threshold"
	ReasonUnknownTool     = "unknown tool"
)

// rule is one row of the static unlock table.
type rule struct {
	category  model.Category
	threshold float64
	always    bool
	hint      string
}

// rules maps each tool to its gating rule. icp is the entry tool and is
// always open; the other two gate on a category score.
var rules = map[model.ToolID]rule{
	model.ToolICP: {
		always: true,
		hint:   "Start here: rate your ideal customer profile.",
	},
	model.ToolCostCalculator: {
		category:  model.CategoryValueCommunication,
		threshold: unlockThreshold,
		hint:      "Complete ICP analyses to build value communication competency.",
	},
	model.ToolBusinessCase: {
		category:  model.CategorySalesExecution,
		threshold: unlockThreshold,
		hint:      "Run cost-of-inaction calculations to build sales execution competency.",
	},
}

// Tools lists the gated tools in progression order.
func Tools() []model.ToolID {
	return []model.ToolID{model.ToolICP, model.ToolCostCalculator, model.ToolBusinessCase}
}

// Evaluate returns the access decision for one tool. Unknown tools are
// reported locked with zeroed progress rather than an error, so a bad tool
// id can never crash the caller.
func Evaluate(tool model.ToolID, profile ledger.Profile) types.ToolAccess {
	r, ok := rules[tool]
	if !ok {
		return types.ToolAccess{
			Tool:     string(tool),
			Unlocked: false,
			Reason:   ReasonUnknownTool,
		}
	}

	if r.always {
		return types.ToolAccess{
			Tool:     string(tool),
			Unlocked: true,
			Reason:   ReasonAlwaysAvailable,
		}
	}

	completed := profile.CategoryScore(r.category)
	if completed >= r.threshold {
		return types.ToolAccess{
			Tool:     string(tool),
			Unlocked: true,
			Reason:   ReasonUnlocked,
			Progress: types.Progress{
				Completed: completed,
				Required:  r.threshold,
			},
		}
	}

	return types.ToolAccess{
		Tool:     string(tool),
		Unlocked: false,
		Reason:   ReasonBelowThreshold,
		Progress: types.Progress{
			Completed:       completed,
			Required:        r.threshold,
			NextRequirement: r.hint,
		},
	}
}

// EvaluateAll returns the decision for every known tool, keyed by tool id.
func EvaluateAll(profile ledger.Profile) map[model.ToolID]types.ToolAccess {
	out := make(map[model.ToolID]types.ToolAccess, len(rules))
	for _, tool := range Tools() {
		out[tool] = Evaluate(tool, profile)
	}
	return out
}
