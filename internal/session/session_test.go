package session_test

import (
	"context"
	"errors"
	"testing"

	session "github.com/revgate/revgate/internal/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStaticProvider(t *testing.T) {
	Convey("Given a static session provider", t, func() {
		p := session.NewStaticProvider()
		ctx := context.Background()

		Convey("When no session exists", func() {
			_, err := p.Current(ctx, "cust-1")

			Convey("Then Current reports no session", func() {
				So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
			})

			Convey("Then Refresh reports no session", func() {
				So(errors.Is(p.Refresh(ctx, "cust-1"), session.ErrNoSession), ShouldBeTrue)
			})
		})

		Convey("When a session is installed", func() {
			p.Put(session.Session{CustomerID: "cust-1", RecordID: "rec-9", AccessToken: "tok"})

			s, err := p.Current(ctx, "cust-1")

			Convey("Then Current returns it with LastSeen set", func() {
				So(err, ShouldBeNil)
				So(s.RecordID, ShouldEqual, "rec-9")
				So(s.LastSeen.IsZero(), ShouldBeFalse)
			})

			Convey("And Refresh succeeds and keeps the token opaque", func() {
				So(p.Refresh(ctx, "cust-1"), ShouldBeNil)
				after, err := p.Current(ctx, "cust-1")
				So(err, ShouldBeNil)
				So(after.AccessToken, ShouldEqual, "tok")
			})
		})
	})
}
