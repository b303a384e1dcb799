package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording render metrics", func() {
			Convey("Then it should record tracked renders", func() {
				So(func() {
					RecordRenderTracked()
					RecordRenderTracked()
					RecordUnnecessaryRender()
				}, ShouldNotPanic)
			})

			Convey("And it should record render durations", func() {
				So(func() {
					RecordRenderDuration(1.5)
					RecordRenderDuration(16.7)
					RecordRenderDuration(120.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record pattern detections and storms", func() {
				So(func() {
					RecordPatternDetection("non-deterministic-computed")
					RecordPatternDetection("event-listener-leak")
					RecordStormDetected()
					UpdateStormsActive(2)
					UpdateStormsActive(0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording tracker metrics", func() {
			So(func() {
				UpdateRingSize(42)
				UpdateRingCapacity(100)
				RecordRingEviction()
				UpdateComponentCount(7)
				RecordTrackLatency(0.3)
			}, ShouldNotPanic)
		})

		Convey("When recording broadcast metrics", func() {
			So(func() {
				RecordBroadcastSent("multicast")
				RecordBroadcastReceived("storage")
				RecordBroadcastError("storage", "write_failed")
				RecordBroadcastDropped()
				UpdateFallbackActive(true)
				UpdateFallbackActive(false)
			}, ShouldNotPanic)
		})

		Convey("When recording archive and queue metrics", func() {
			So(func() {
				RecordArchiveWrite()
				RecordArchiveWriteError()
				RecordArchiveWriteLatency(2.5)
				RecordArchiveQueryLatency(1.0)
				UpdateQueueSize(10)
				UpdateQueueCapacity(1000)
				UpdateQueueUtilization(0.01)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
			}, ShouldNotPanic)
		})

		Convey("When recording worker metrics", func() {
			So(func() {
				UpdateWorkerActiveCount(2)
				RecordWorkerProcessingLatency(5.0)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/healthz", "GET", "200")
				RecordHTTPRequest("/events", "POST", "202")
				RecordHTTPRequestDuration("/records", "GET", "200", 3.2)
			}, ShouldNotPanic)
		})

		Convey("When recording error metrics", func() {
			So(func() {
				RecordErrorByComponent("broadcast", "transport_unavailable")
				RecordErrorByType("malformed_payload", "medium")
				RecordErrorByEndpoint("/events", "POST", "client_error")
				RecordErrorLatency("archive", "write_failed", 12.0)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.8)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent metric updates", t, func() {
		Convey("When many goroutines record at once", func() {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						RecordRenderTracked()
						UpdateRingSize(j)
						RecordBroadcastSent("multicast")
					}
				}()
			}
			wg.Wait()

			Convey("Then the registry should still be usable", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When gathering", func() {
			families, err := GetRegistry().Gather()

			Convey("Then it should contain our metrics", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
