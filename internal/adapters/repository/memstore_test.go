package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	repository "github.com/revgate/revgate/internal/adapters/repository"
	"github.com/revgate/revgate/internal/domain/ledger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStore(t *testing.T) {
	Convey("Given a sharded in-memory store", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()

		Convey("When saving and loading a profile", func() {
			err := store.SaveProfile(ctx, ledger.Profile{
				CustomerID:         "cust-1",
				ValueCommunication: 42,
				TotalPoints:        420,
				Tier:               "Customer Intelligence Foundation",
			})
			So(err, ShouldBeNil)

			loaded, err := store.Profile(ctx, "cust-1")

			Convey("Then the snapshot round-trips", func() {
				So(err, ShouldBeNil)
				So(loaded.ValueCommunication, ShouldEqual, 42)
				So(loaded.TotalPoints, ShouldEqual, 420)
			})
		})

		Convey("When loading an unknown profile", func() {
			_, err := store.Profile(ctx, "ghost")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When saving progress for a tool", func() {
			state := map[string]string{"revenue": "1000000", "churnRate": "0.05"}
			err := store.SaveProgress(ctx, repository.SavedProgress{
				CustomerID: "cust-1",
				ToolKey:    "costCalculator",
				State:      state,
			})
			So(err, ShouldBeNil)

			Convey("Then it loads back for the same (customer, tool)", func() {
				loaded, err := store.Progress(ctx, "cust-1", "costCalculator")
				So(err, ShouldBeNil)
				So(loaded.State["revenue"], ShouldEqual, "1000000")
			})

			Convey("And mutating the caller's map does not leak into the store", func() {
				state["revenue"] = "tampered"
				loaded, err := store.Progress(ctx, "cust-1", "costCalculator")
				So(err, ShouldBeNil)
				So(loaded.State["revenue"], ShouldEqual, "1000000")
			})

			Convey("And a different tool key is independent", func() {
				_, err := store.Progress(ctx, "cust-1", "businessCase")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When many goroutines write different customers", func() {
			const writers = 64
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					_ = store.SaveProfile(ctx, ledger.Profile{
						CustomerID:  fmt.Sprintf("cust-%d", n),
						TotalPoints: float64(n),
					})
				}(i)
			}
			wg.Wait()

			Convey("Then all profiles are present", func() {
				So(store.Count(ctx), ShouldEqual, writers)
			})
		})
	})

	Convey("Given a store with a custom shard count", t, func() {
		store := repository.NewMemStore(repository.WithShardCount(1))
		ctx := context.Background()

		Convey("When saving through a single shard", func() {
			So(store.SaveProfile(ctx, ledger.Profile{CustomerID: "a"}), ShouldBeNil)
			So(store.SaveProfile(ctx, ledger.Profile{CustomerID: "b"}), ShouldBeNil)

			Convey("Then both land in the store", func() {
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}
