package gate_test

import (
	"testing"

	gate "github.com/revgate/revgate/internal/domain/gate"
	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluate(t *testing.T) {
	Convey("Given an empty profile", t, func() {
		profile := ledger.Profile{CustomerID: "cust-1"}

		Convey("Then icp is always unlocked", func() {
			access := gate.Evaluate(model.ToolICP, profile)
			So(access.Unlocked, ShouldBeTrue)
			So(access.Reason, ShouldEqual, gate.ReasonAlwaysAvailable)
		})

		Convey("Then costCalculator and businessCase are locked with hints", func() {
			cost := gate.Evaluate(model.ToolCostCalculator, profile)
			So(cost.Unlocked, ShouldBeFalse)
			So(cost.Reason, ShouldEqual, gate.ReasonBelowThreshold)
			So(cost.Progress.Completed, ShouldEqual, 0)
			So(cost.Progress.Required, ShouldEqual, 70)
			So(cost.Progress.NextRequirement, ShouldNotBeBlank)

			bc := gate.Evaluate(model.ToolBusinessCase, profile)
			So(bc.Unlocked, ShouldBeFalse)
			So(bc.Progress.Required, ShouldEqual, 70)
		})
	})

	Convey("Given the unlock boundary for costCalculator", t, func() {
		Convey("When valueCommunication is 69", func() {
			access := gate.Evaluate(model.ToolCostCalculator, ledger.Profile{ValueCommunication: 69})

			Convey("Then it stays locked", func() {
				So(access.Unlocked, ShouldBeFalse)
				So(access.Progress.Completed, ShouldEqual, 69)
			})
		})

		Convey("When valueCommunication is exactly 70", func() {
			access := gate.Evaluate(model.ToolCostCalculator, ledger.Profile{ValueCommunication: 70})

			Convey("Then it unlocks", func() {
				So(access.Unlocked, ShouldBeTrue)
				So(access.Reason, ShouldEqual, gate.ReasonUnlocked)
			})
		})
	})

	Convey("Given the unlock boundary for businessCase", t, func() {
		Convey("When salesExecution is 69", func() {
			So(gate.Evaluate(model.ToolBusinessCase, ledger.Profile{SalesExecution: 69}).Unlocked, ShouldBeFalse)
		})

		Convey("When salesExecution is 70", func() {
			So(gate.Evaluate(model.ToolBusinessCase, ledger.Profile{SalesExecution: 70}).Unlocked, ShouldBeTrue)
		})

		Convey("And the other category does not open this gate", func() {
			So(gate.Evaluate(model.ToolBusinessCase, ledger.Profile{ValueCommunication: 100}).Unlocked, ShouldBeFalse)
		})
	})

	Convey("Given an unknown tool id", t, func() {
		access := gate.Evaluate(model.ToolID("forecaster"), ledger.Profile{})

		Convey("Then it is reported locked, not an error", func() {
			So(access.Unlocked, ShouldBeFalse)
			So(access.Reason, ShouldEqual, gate.ReasonUnknownTool)
			So(access.Progress.Required, ShouldEqual, 0)
		})
	})

	Convey("Given EvaluateAll", t, func() {
		statuses := gate.EvaluateAll(ledger.Profile{ValueCommunication: 75})

		Convey("Then every known tool has a decision", func() {
			So(statuses, ShouldHaveLength, 3)
			So(statuses[model.ToolICP].Unlocked, ShouldBeTrue)
			So(statuses[model.ToolCostCalculator].Unlocked, ShouldBeTrue)
			So(statuses[model.ToolBusinessCase].Unlocked, ShouldBeFalse)
		})
	})
}
