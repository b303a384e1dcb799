package tracker_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/tracker"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time          { return c.current }
func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
}

func ms(v float64) *float64 { return &v }

func TestTrackRender(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tracker", t, func() {
		clock := newFakeClock()
		tr := tracker.New(tracker.WithClock(clock.now))

		Convey("When tracking a fully populated event", func() {
			rec := tr.TrackRender(ctx, model.RenderEvent{
				UID:              "cmp-1",
				ComponentName:    "UserList",
				Timestamp:        clock.now().UnixMilli(),
				Duration:         ms(12.5),
				Reason:           "props-change",
				IsUnnecessary:    true,
				TriggerMechanism: "props",
				TriggerSource:    "items",
				EventTrigger:     []any{"click", "input"},
				EnhancedPatterns: []string{"unstable-props"},
			})

			Convey("Then the record should carry the event's fields", func() {
				So(rec.UID, ShouldEqual, "cmp-1")
				So(rec.ComponentName, ShouldEqual, "UserList")
				So(rec.Timestamp.UnixMilli(), ShouldEqual, clock.now().UnixMilli())
				So(rec.Duration, ShouldNotBeNil)
				So(*rec.Duration, ShouldEqual, 12500*time.Microsecond)
				So(rec.IsUnnecessary, ShouldBeTrue)
				So(rec.TriggerMechanism, ShouldEqual, "props")
				So(rec.EventTriggerCount, ShouldEqual, 2)
				So(rec.Patterns, ShouldContain, "unstable-props")
			})

			Convey("And the record should get a deterministic id", func() {
				So(rec.ID, ShouldEqual, model.RecordID("cmp-1", 1, rec.Timestamp))
			})
		})

		Convey("When tracking a sparse event", func() {
			rec := tr.TrackRender(ctx, model.RenderEvent{UID: "cmp-2"})

			Convey("Then optional fields should default instead of failing", func() {
				So(rec.Timestamp.Equal(clock.now()), ShouldBeTrue)
				So(rec.Duration, ShouldBeNil)
				So(rec.TriggerMechanism, ShouldEqual, model.UnknownTrigger)
				So(rec.TriggerSource, ShouldEqual, model.UnknownTrigger)
				So(rec.EventTriggerCount, ShouldEqual, 0)
			})
		})

		Convey("When the event carries an instance context", func() {
			rec := tr.TrackRender(ctx, model.RenderEvent{
				UID: "cmp-3",
				InstanceContext: &model.InstanceContext{
					ComponentName: "Clock",
					Computed: map[string]any{
						"nowLabel": "function() { return Date.now() }",
					},
				},
			})

			Convey("Then detector hits should be merged into the patterns", func() {
				So(rec.Patterns, ShouldContain, "non-deterministic-computed")
			})
		})
	})
}

func TestRingEviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tracker capped at 2 records", t, func() {
		tr := tracker.New(tracker.WithMaxRecords(2))

		Convey("When three events arrive", func() {
			tr.TrackRender(ctx, model.RenderEvent{UID: "a"})
			tr.TrackRender(ctx, model.RenderEvent{UID: "b"})
			tr.TrackRender(ctx, model.RenderEvent{UID: "c"})

			Convey("Then only the newest two should survive, newest first", func() {
				recs := tr.RecentRecords(0)
				So(recs, ShouldHaveLength, 2)
				So(recs[0].UID, ShouldEqual, "c")
				So(recs[1].UID, ShouldEqual, "b")
			})

			Convey("And stats for the evicted component should survive eviction", func() {
				stats, ok := tr.Stats("a")
				So(ok, ShouldBeTrue)
				So(stats.TotalRenders, ShouldEqual, 1)
			})
		})
	})
}

func TestQueries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tracker with mixed records", t, func() {
		tr := tracker.New()
		for i := 0; i < 4; i++ {
			tr.TrackRender(ctx, model.RenderEvent{
				UID:           "list",
				ComponentName: "TodoList",
				IsUnnecessary: i%2 == 0,
				Duration:      ms(float64(10 * (i + 1))),
			})
		}
		tr.TrackRender(ctx, model.RenderEvent{UID: "header", ComponentName: "Header"})

		Convey("When querying recent records with a limit", func() {
			recs := tr.RecentRecords(3)

			Convey("Then only that many should return, newest first", func() {
				So(recs, ShouldHaveLength, 3)
				So(recs[0].UID, ShouldEqual, "header")
				So(recs[1].UID, ShouldEqual, "list")
			})
		})

		Convey("When querying by component", func() {
			So(tr.ComponentRecords("list", 0), ShouldHaveLength, 4)
			So(tr.ComponentRecords("list", 2), ShouldHaveLength, 2)

			Convey("Then an untracked uid should yield an empty slice", func() {
				So(tr.ComponentRecords("missing", 0), ShouldBeEmpty)
			})
		})

		Convey("When querying unnecessary renders", func() {
			recs := tr.UnnecessaryRenders(0)

			So(recs, ShouldHaveLength, 2)
			for _, rec := range recs {
				So(rec.IsUnnecessary, ShouldBeTrue)
			}
		})

		Convey("When querying stats", func() {
			stats, ok := tr.Stats("list")

			Convey("Then the aggregate should reflect all four renders", func() {
				So(ok, ShouldBeTrue)
				So(stats.ComponentName, ShouldEqual, "TodoList")
				So(stats.TotalRenders, ShouldEqual, 4)
				So(stats.UnnecessaryRenders, ShouldEqual, 2)
				So(stats.AvgDuration, ShouldEqual, 25*time.Millisecond)
			})

			Convey("And the all-stats snapshot should hold one entry per uid", func() {
				So(tr.AllStats(), ShouldHaveLength, 2)
				So(tr.ComponentCount(), ShouldEqual, 2)
			})

			Convey("And an untracked uid should report not found", func() {
				_, found := tr.Stats("missing")
				So(found, ShouldBeFalse)
			})
		})
	})
}

func TestStorms(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tracker with a tight storm threshold", t, func() {
		clock := newFakeClock()
		freq := perf.NewFrequencyTracker(
			perf.WithStormWindow(time.Second),
			perf.WithStormThreshold(3),
			perf.WithFrequencyClock(clock.now),
		)
		tr := tracker.New(
			tracker.WithClock(clock.now),
			tracker.WithFrequencyTracker(freq),
		)

		Convey("When one component renders past the threshold", func() {
			for i := 0; i < 4; i++ {
				tr.TrackRender(ctx, model.RenderEvent{UID: "spinner", ComponentName: "Spinner"})
				clock.advance(50 * time.Millisecond)
			}
			tr.TrackRender(ctx, model.RenderEvent{UID: "calm", ComponentName: "Footer"})

			Convey("Then only that component should be in storm", func() {
				storms := tr.ActiveStorms()
				So(storms, ShouldHaveLength, 1)
				So(storms[0].Key, ShouldEqual, "spinner:Spinner")
				So(storms[0].Count, ShouldEqual, 4)
			})
		})
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tracker holding records and stats", t, func() {
		tr := tracker.New()
		for i := 0; i < 5; i++ {
			tr.TrackRender(ctx, model.RenderEvent{UID: fmt.Sprintf("cmp-%d", i)})
		}
		So(tr.Len(), ShouldEqual, 5)

		Convey("When cleared", func() {
			tr.Clear()

			Convey("Then the ring, stats and storms should all be empty", func() {
				So(tr.Len(), ShouldEqual, 0)
				So(tr.RecentRecords(0), ShouldBeEmpty)
				So(tr.AllStats(), ShouldBeEmpty)
				So(tr.ActiveStorms(), ShouldBeEmpty)
			})

			Convey("And clearing again should be harmless", func() {
				tr.Clear()
				So(tr.Len(), ShouldEqual, 0)
			})
		})
	})
}
