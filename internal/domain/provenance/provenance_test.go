package provenance_test

import (
	"testing"

	provenance "github.com/revgate/revgate/internal/domain/provenance"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a fresh tracker", t, func() {
		tr := provenance.NewTracker()

		Convey("Then no field is system-populated", func() {
			So(tr.IsSystemPopulated("revenue"), ShouldBeFalse)
		})

		Convey("When a field is marked system", func() {
			tr.MarkSystem("revenue")

			Convey("Then it is system-populated and auto-populate may write it", func() {
				So(tr.IsSystemPopulated("revenue"), ShouldBeTrue)
				So(tr.ShouldAutoPopulate("revenue", "1000000"), ShouldBeTrue)
			})

			Convey("And when the user edits it", func() {
				tr.MarkUser("revenue")

				Convey("Then it never flips back without an explicit re-mark", func() {
					So(tr.IsSystemPopulated("revenue"), ShouldBeFalse)
					So(tr.ShouldAutoPopulate("revenue", "1000000"), ShouldBeFalse)
				})

				Convey("And a later system pass on the same field is ignored for overwrites", func() {
					// The write guard checks the tag before writing; a
					// user-owned, non-empty field must not be overwritten.
					So(tr.ShouldAutoPopulate("revenue", "999"), ShouldBeFalse)
				})
			})
		})

		Convey("When a field is empty", func() {
			Convey("Then auto-populate may always fill it", func() {
				So(tr.ShouldAutoPopulate("churnRate", ""), ShouldBeTrue)
			})
		})

		Convey("When the tracker is cleared", func() {
			tr.MarkSystem("revenue")
			tr.MarkSystem("dealSize")
			tr.Clear()

			Convey("Then all tags are dropped", func() {
				So(tr.IsSystemPopulated("revenue"), ShouldBeFalse)
				So(tr.IsSystemPopulated("dealSize"), ShouldBeFalse)
			})
		})
	})
}
