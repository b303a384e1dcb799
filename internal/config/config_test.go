package config_test

import (
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.MaxRecords, convey.ShouldEqual, 1000)
			convey.So(cfg.StormWindowMS, convey.ShouldEqual, 1000)
			convey.So(cfg.StormThreshold, convey.ShouldEqual, 5)
			convey.So(cfg.MovingAvgWindow, convey.ShouldEqual, 10)
			convey.So(cfg.MaxQueryLimit, convey.ShouldEqual, 100)
			convey.So(cfg.BroadcastGroup, convey.ShouldEqual, "239.77.86.1:9777")
			convey.So(cfg.ArchivePath, convey.ShouldEqual, "inspector.db")
			convey.So(cfg.ArchiveQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
		})
	})
}
