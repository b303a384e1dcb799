package detect_test

import (
	"testing"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/detect"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNonDeterministicComputed(t *testing.T) {
	Convey("Given the non-deterministic computed detector", t, func() {
		Convey("When a computed property reads the clock", func() {
			ctx := &model.InstanceContext{
				Computed: map[string]any{
					"timestamp": "function() { return Date.now() }",
				},
			}
			So(detect.NonDeterministicComputed(ctx), ShouldBeTrue)
		})

		Convey("When a computed property reads global browser state", func() {
			ctx := &model.InstanceContext{
				Computed: map[string]any{
					"width": "function() { return window.innerWidth }",
				},
			}
			So(detect.NonDeterministicComputed(ctx), ShouldBeTrue)
		})

		Convey("When computed properties are deterministic", func() {
			ctx := &model.InstanceContext{
				Computed: map[string]any{
					"fullName": "function() { return this.first + ' ' + this.last }",
				},
			}
			So(detect.NonDeterministicComputed(ctx), ShouldBeFalse)
		})

		Convey("When the computed property is a get/set pair", func() {
			ctx := &model.InstanceContext{
				Computed: map[string]any{
					"rand": map[string]any{
						"get": "function() { return Math.random() }",
						"set": "function(v) { this.v = v }",
					},
				},
			}
			So(detect.NonDeterministicComputed(ctx), ShouldBeTrue)
		})

		Convey("When the computed property only exposes a source carrier", func() {
			ctx := &model.InstanceContext{
				Computed: map[string]any{
					"now": map[string]any{"toString": "() => new Date()"},
				},
			}
			So(detect.NonDeterministicComputed(ctx), ShouldBeTrue)
		})

		Convey("When the input is malformed or absent", func() {
			So(detect.NonDeterministicComputed(nil), ShouldBeFalse)
			So(detect.NonDeterministicComputed(&model.InstanceContext{}), ShouldBeFalse)
			So(detect.NonDeterministicComputed(&model.InstanceContext{
				Computed: map[string]any{"weird": 42, "worse": []any{1}},
			}), ShouldBeFalse)
		})
	})
}

func TestEventListenerLeak(t *testing.T) {
	Convey("Given the event-listener leak detector", t, func() {
		mountWithListener := "function() { window.addEventListener('resize', this.onResize) }"

		Convey("When mount registers and no unmount hook exists", func() {
			ctx := &model.InstanceContext{
				Hooks: map[string]any{"mounted": mountWithListener},
			}
			So(detect.EventListenerLeak(ctx), ShouldBeTrue)
		})

		Convey("When the unmount hook removes the matching listener", func() {
			ctx := &model.InstanceContext{
				Hooks: map[string]any{
					"mounted":   mountWithListener,
					"unmounted": "function() { window.removeEventListener('resize', this.onResize) }",
				},
			}
			So(detect.EventListenerLeak(ctx), ShouldBeFalse)
		})

		Convey("When the unmount hook removes a different listener", func() {
			ctx := &model.InstanceContext{
				Hooks: map[string]any{
					"mounted":   mountWithListener,
					"unmounted": "function() { window.removeEventListener('scroll', this.onScroll) }",
				},
			}
			So(detect.EventListenerLeak(ctx), ShouldBeTrue)
		})

		Convey("When registration happens on an element target", func() {
			ctx := &model.InstanceContext{
				Hooks: map[string]any{
					"mounted": "function() { this.$el.addEventListener('click', this.onClick) }",
				},
			}
			So(detect.EventListenerLeak(ctx), ShouldBeTrue)
		})

		Convey("When the mount hook registers nothing", func() {
			ctx := &model.InstanceContext{
				Hooks: map[string]any{"mounted": "function() { this.load() }"},
			}
			So(detect.EventListenerLeak(ctx), ShouldBeFalse)
		})

		Convey("When hook data is structurally absent at any level", func() {
			So(detect.EventListenerLeak(nil), ShouldBeFalse)
			So(detect.EventListenerLeak(&model.InstanceContext{}), ShouldBeFalse)
			So(detect.EventListenerLeak(&model.InstanceContext{
				Hooks: map[string]any{"mounted": 7},
			}), ShouldBeFalse)
		})
	})
}

func TestDeepWatcher(t *testing.T) {
	Convey("Given the deep watcher detector", t, func() {
		Convey("When a watcher sets deep via options", func() {
			ctx := &model.InstanceContext{
				Watchers: map[string]any{
					"items": map[string]any{"deep": true, "handler": "function() {}"},
				},
			}
			So(detect.DeepWatcher(ctx), ShouldBeTrue)
		})

		Convey("When a watcher source mentions deep observation", func() {
			ctx := &model.InstanceContext{
				Watchers: map[string]any{
					"items": "watch(items, handler, { deep: true })",
				},
			}
			So(detect.DeepWatcher(ctx), ShouldBeTrue)
		})

		Convey("When watchers are shallow or absent", func() {
			So(detect.DeepWatcher(nil), ShouldBeFalse)
			So(detect.DeepWatcher(&model.InstanceContext{}), ShouldBeFalse)
			So(detect.DeepWatcher(&model.InstanceContext{
				Watchers: map[string]any{"items": map[string]any{"handler": "fn"}},
			}), ShouldBeFalse)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given the detector registry", t, func() {
		Convey("When a context trips several detectors", func() {
			ctx := &model.InstanceContext{
				Computed: map[string]any{"t": "() => Date.now()"},
				Hooks:    map[string]any{"mounted": "window.addEventListener('resize', fn)"},
			}
			found := detect.Run(ctx)

			So(found, ShouldContain, detect.PatternNonDeterministicComputed)
			So(found, ShouldContain, detect.PatternEventListenerLeak)
			So(found, ShouldNotContain, detect.PatternDeepWatcher)
		})

		Convey("When the context is nil", func() {
			So(detect.Run(nil), ShouldBeNil)
		})
	})
}
