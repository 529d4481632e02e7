package projection_test

import (
	"errors"
	"testing"

	projection "github.com/revgate/revgate/internal/domain/projection"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProjector_Project(t *testing.T) {
	Convey("Given a projector with reference tables", t, func() {
		p := projection.NewProjector()

		Convey("When projecting the reference scenario", func() {
			// 10M revenue, 20% growth, 150k deals, 90-day cycle, 5% churn, 12 months.
			a := projection.Assumptions{
				Revenue:          10_000_000,
				TargetGrowthRate: 0.20,
				AverageDealSize:  150_000,
				SalesCycleDays:   90,
				ConversionRate:   0.15,
				ChurnRate:        0.05,
				HorizonMonths:    12,
			}

			out, err := p.Project(a)

			Convey("Then the category sub-amounts should match the canonical formulas", func() {
				So(err, ShouldBeNil)
				So(out.Breakdown.InefficiencyLoss, ShouldEqual, 1_500_000)
				So(out.Breakdown.ChurnImpact, ShouldEqual, 500_000)
				// 90-day cycle is 30 days over the 60-day baseline.
				So(out.Breakdown.ExtendedCycleCost, ShouldEqual, 30*150_000*0.02)
				// monthlyRevenue = 10M/12; missed growth is the triangular accrual.
				monthly := 10_000_000.0 / 12
				wantMissed := (monthly * 0.20 / 12) * 12 * 13 / 2
				So(out.Breakdown.MissedGrowthRevenue, ShouldAlmostEqual, wantMissed, 1e-6)
			})

			Convey("Then the total should equal the sum of the four categories", func() {
				So(err, ShouldBeNil)
				sum := out.Breakdown.MissedGrowthRevenue +
					out.Breakdown.InefficiencyLoss +
					out.Breakdown.ChurnImpact +
					out.Breakdown.ExtendedCycleCost
				So(out.TotalCostOfInaction, ShouldAlmostEqual, sum, 1e-6)
				So(out.MonthlyImpact, ShouldAlmostEqual, out.TotalCostOfInaction/12, 1e-6)
			})

			Convey("Then the timeline should hold 12 monotone comparison points", func() {
				So(err, ShouldBeNil)
				So(out.Timeline, ShouldHaveLength, 12)
				monthly := 10_000_000.0 / 12
				first := out.Timeline[0]
				So(first.Month, ShouldEqual, 1)
				So(first.WithAction, ShouldBeGreaterThan, monthly)
				So(first.Gap, ShouldAlmostEqual, first.WithAction-first.WithoutAction, 1e-9)
				for i := 1; i < len(out.Timeline); i++ {
					So(out.Timeline[i].Gap, ShouldBeGreaterThan, out.Timeline[i-1].Gap)
				}
			})
		})

		Convey("When the cycle length equals the baseline", func() {
			out, err := p.Project(projection.Assumptions{
				Revenue:         10_000_000,
				AverageDealSize: 150_000,
				SalesCycleDays:  60,
			})

			Convey("Then the extended cycle cost should be zero but still reported", func() {
				So(err, ShouldBeNil)
				So(out.Breakdown.ExtendedCycleCost, ShouldEqual, 0)
			})
		})

		Convey("When revenue is non-positive", func() {
			_, err := p.Project(projection.Assumptions{Revenue: 0, AverageDealSize: 100})

			Convey("Then it should reject with insufficient data", func() {
				So(errors.Is(err, projection.ErrInsufficientData), ShouldBeTrue)
			})
		})

		Convey("When the average deal size is non-positive", func() {
			_, err := p.Project(projection.Assumptions{Revenue: 100, AverageDealSize: -1})

			Convey("Then it should reject with insufficient data", func() {
				So(errors.Is(err, projection.ErrInsufficientData), ShouldBeTrue)
			})
		})

		Convey("When optional fields are omitted", func() {
			out, err := p.Project(projection.Assumptions{
				Revenue:         1_000_000,
				AverageDealSize: 50_000,
			})

			Convey("Then the documented defaults should be substituted", func() {
				So(err, ShouldBeNil)
				So(out.Resolved.TargetGrowthRate, ShouldEqual, 0.20)
				So(out.Resolved.SalesCycleDays, ShouldEqual, 90)
				So(out.Resolved.ConversionRate, ShouldEqual, 0.15)
				So(out.Resolved.ChurnRate, ShouldEqual, 0.05)
				So(out.Resolved.HorizonMonths, ShouldEqual, 12)
			})
		})

		Convey("When the horizon exceeds the display cap", func() {
			out, err := p.Project(projection.Assumptions{
				Revenue:         1_000_000,
				AverageDealSize: 50_000,
				HorizonMonths:   24,
			})

			Convey("Then the timeline is capped at 12 points while totals use the full horizon", func() {
				So(err, ShouldBeNil)
				So(out.Timeline, ShouldHaveLength, 12)
				So(out.MonthlyImpact, ShouldAlmostEqual, out.TotalCostOfInaction/24, 1e-6)
			})
		})

		Convey("When two identical calls are made", func() {
			a := projection.Assumptions{Revenue: 2_500_000, AverageDealSize: 80_000, HorizonMonths: 6}
			first, err1 := p.Project(a)
			second, err2 := p.Project(a)

			Convey("Then the projections should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})
	})

	Convey("Given a projector with overridden tables", t, func() {
		p := projection.NewProjector(
			projection.WithConstants(projection.Constants{
				InefficiencyRate:    0.10,
				OrganicGrowthFactor: 0.5,
				CycleCostFactor:     0.01,
				BaselineCycleDays:   30,
				TimelineCap:         6,
			}),
			projection.WithDefaults(projection.Defaults{
				TargetGrowthRate: 0.10,
				SalesCycleDays:   45,
				ConversionRate:   0.25,
				ChurnRate:        0.02,
				HorizonMonths:    6,
			}),
		)

		Convey("When projecting with omitted optional fields", func() {
			out, err := p.Project(projection.Assumptions{Revenue: 1_200_000, AverageDealSize: 10_000})

			Convey("Then the overridden tables should apply", func() {
				So(err, ShouldBeNil)
				So(out.Resolved.HorizonMonths, ShouldEqual, 6)
				So(out.Breakdown.InefficiencyLoss, ShouldEqual, 120_000)
				// 45-day cycle is 15 days over the 30-day baseline.
				So(out.Breakdown.ExtendedCycleCost, ShouldEqual, 15*10_000*0.01)
				So(out.Timeline, ShouldHaveLength, 6)
			})
		})
	})
}
