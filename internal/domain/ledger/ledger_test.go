package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	ledger "github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func award(id, customer string, points float64, cat model.Category) model.AwardEvent {
	return model.AwardEvent{
		EventID:    id,
		CustomerID: customer,
		Points:     points,
		Category:   cat,
		Reason:     "test",
		TS:         time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestLedger_Apply(t *testing.T) {
	Convey("Given a fresh ledger", t, func() {
		l := ledger.NewLedger()
		ctx := context.Background()

		Convey("When applying the reference award sequence", func() {
			_, err1 := l.Apply(ctx, award("e1", "cust-1", 50, model.CategoryCustomerAnalysis))
			_, err2 := l.Apply(ctx, award("e2", "cust-1", 75, model.CategoryValueCommunication))
			p, err3 := l.Apply(ctx, award("e3", "cust-1", 100, model.CategorySalesExecution))

			Convey("Then points accumulate and categories scale by the divisor", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(err3, ShouldBeNil)
				So(p.TotalPoints, ShouldEqual, 225)
				So(p.CustomerAnalysis, ShouldEqual, 5)
				So(p.ValueCommunication, ShouldEqual, 7.5)
				So(p.SalesExecution, ShouldEqual, 10)
				So(p.Tier, ShouldEqual, "Customer Intelligence Foundation")
			})
		})

		Convey("When the same event id is applied twice", func() {
			first, err1 := l.Apply(ctx, award("dup", "cust-1", 50, model.CategoryCustomerAnalysis))
			_, err2 := l.Apply(ctx, award("dup", "cust-1", 50, model.CategoryCustomerAnalysis))
			after, err3 := l.Profile("cust-1")

			Convey("Then the second application is rejected and nothing double-counts", func() {
				So(err1, ShouldBeNil)
				So(errors.Is(err2, ledger.ErrDuplicateEvent), ShouldBeTrue)
				So(err3, ShouldBeNil)
				So(after.TotalPoints, ShouldEqual, first.TotalPoints)
				So(l.Applied(ctx, "dup"), ShouldBeTrue)
				So(l.Applied(ctx, "never"), ShouldBeFalse)
			})
		})

		Convey("When applying invalid events", func() {
			_, errNoID := l.Apply(ctx, award("", "cust-1", 50, model.CategoryCustomerAnalysis))
			_, errNoCustomer := l.Apply(ctx, award("e1", "", 50, model.CategoryCustomerAnalysis))
			_, errZeroPoints := l.Apply(ctx, award("e2", "cust-1", 0, model.CategoryCustomerAnalysis))
			_, errBadCategory := l.Apply(ctx, award("e3", "cust-1", 50, model.Category("negotiation")))

			Convey("Then each is rejected as invalid", func() {
				So(errors.Is(errNoID, ledger.ErrInvalidAward), ShouldBeTrue)
				So(errors.Is(errNoCustomer, ledger.ErrInvalidAward), ShouldBeTrue)
				So(errors.Is(errZeroPoints, ledger.ErrInvalidAward), ShouldBeTrue)
				So(errors.Is(errBadCategory, ledger.ErrInvalidAward), ShouldBeTrue)
			})
		})

		Convey("When a category accumulates past 100", func() {
			var last ledger.Profile
			for i := 0; i < 25; i++ {
				p, err := l.Apply(ctx, award(fmt.Sprintf("vc-%d", i), "cust-1", 50, model.CategoryValueCommunication))
				So(err, ShouldBeNil)
				last = p
			}

			Convey("Then the category clamps at 100 while points keep growing", func() {
				So(last.ValueCommunication, ShouldEqual, 100)
				So(last.TotalPoints, ShouldEqual, 1250)
				So(last.Tier, ShouldEqual, "Value Communication Developing")
			})
		})

		Convey("When applying a long award sequence", func() {
			prevTotal := 0.0
			prevVC := 0.0
			for i := 0; i < 40; i++ {
				p, err := l.Apply(ctx, award(fmt.Sprintf("seq-%d", i), "cust-1", float64(10+i), model.CategoryValueCommunication))
				So(err, ShouldBeNil)

				// Total points never decrease; category never decreases.
				So(p.TotalPoints, ShouldBeGreaterThan, prevTotal)
				So(p.ValueCommunication, ShouldBeGreaterThanOrEqualTo, prevVC)
				So(p.ValueCommunication, ShouldBeLessThanOrEqualTo, 100)
				prevTotal = p.TotalPoints
				prevVC = p.ValueCommunication
			}
		})

		Convey("When profiles belong to different customers", func() {
			_, _ = l.Apply(ctx, award("a1", "cust-1", 50, model.CategoryCustomerAnalysis))
			_, _ = l.Apply(ctx, award("a2", "cust-2", 75, model.CategoryValueCommunication))

			p1, err1 := l.Profile("cust-1")
			p2, err2 := l.Profile("cust-2")

			Convey("Then state is fully independent", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(p1.TotalPoints, ShouldEqual, 50)
				So(p2.TotalPoints, ShouldEqual, 75)
				So(l.Count(), ShouldEqual, 2)
			})
		})

		Convey("When asking for an unknown profile", func() {
			_, err := l.Profile("ghost")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, ledger.ErrProfileNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a persisted snapshot", t, func() {
		l := ledger.NewLedger()
		ctx := context.Background()

		Convey("When seeding and then awarding", func() {
			l.Seed(ledger.Profile{
				CustomerID:         "cust-1",
				ValueCommunication: 40,
				TotalPoints:        1200,
			})
			p, err := l.Apply(ctx, award("post-seed", "cust-1", 100, model.CategoryValueCommunication))

			Convey("Then awards build on the seeded state", func() {
				So(err, ShouldBeNil)
				So(p.TotalPoints, ShouldEqual, 1300)
				So(p.ValueCommunication, ShouldEqual, 50)
				So(p.Tier, ShouldEqual, "Value Communication Developing")
			})
		})

		Convey("When seeding an older snapshot over newer in-memory state", func() {
			_, _ = l.Apply(ctx, award("newer", "cust-1", 500, model.CategorySalesExecution))
			l.Seed(ledger.Profile{CustomerID: "cust-1", TotalPoints: 100})

			p, err := l.Profile("cust-1")

			Convey("Then the newer state wins", func() {
				So(err, ShouldBeNil)
				So(p.TotalPoints, ShouldEqual, 500)
			})
		})

		Convey("When resetting a customer", func() {
			_, _ = l.Apply(ctx, award("pre-reset", "cust-1", 500, model.CategorySalesExecution))
			l.Reset("cust-1")

			_, err := l.Profile("cust-1")

			Convey("Then the profile is gone", func() {
				So(errors.Is(err, ledger.ErrProfileNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestTierTable(t *testing.T) {
	Convey("Given the fixed tier thresholds", t, func() {
		cases := []struct {
			points float64
			want   string
		}{
			{0, "Customer Intelligence Foundation"},
			{999, "Customer Intelligence Foundation"},
			{1000, "Value Communication Developing"},
			{2499, "Value Communication Developing"},
			{2500, "Sales Strategy Proficient"},
			{4999, "Sales Strategy Proficient"},
			{5000, "Revenue Development Advanced"},
			{9999, "Revenue Development Advanced"},
			{10000, "Market Execution Expert"},
			{19999, "Market Execution Expert"},
			{20000, "Revenue Intelligence Master"},
			{1_000_000, "Revenue Intelligence Master"},
		}

		for _, tc := range cases {
			So(ledger.Tier(tc.points), ShouldEqual, tc.want)
		}
	})
}
