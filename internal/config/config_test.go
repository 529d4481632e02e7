package config_test

import (
	"runtime"
	"testing"

	"github.com/revgate/revgate/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.SaveQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.AutosaveIntervalSec, convey.ShouldEqual, 30)
			convey.So(cfg.SessionRefreshIntervalSec, convey.ShouldEqual, 300)
		})

		convey.Convey("Then the engine constants table should match the canonical formulas", func() {
			convey.So(cfg.InefficiencyRate, convey.ShouldEqual, 0.15)
			convey.So(cfg.OrganicGrowthFactor, convey.ShouldEqual, 0.3)
			convey.So(cfg.CycleCostFactor, convey.ShouldEqual, 0.02)
			convey.So(cfg.BaselineCycleDays, convey.ShouldEqual, 60)
			convey.So(cfg.TimelineCap, convey.ShouldEqual, 12)
			convey.So(cfg.PointDivisor, convey.ShouldEqual, 10)
			convey.So(cfg.ScoreAwardPoints, convey.ShouldEqual, 50)
			convey.So(cfg.ProjectionAwardPoints, convey.ShouldEqual, 75)
		})
	})
}
