package tracker

import (
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/detect"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
)

// Option applies a configuration option to a Tracker.
type Option func(*Tracker)

// WithMaxRecords caps the ring buffer size.
func WithMaxRecords(max int) Option {
	return func(t *Tracker) {
		if max > 0 {
			t.maxRecords = max
		}
	}
}

// WithFrequencyTracker injects a pre-configured frequency tracker.
func WithFrequencyTracker(freq *perf.FrequencyTracker) Option {
	return func(t *Tracker) {
		if freq != nil {
			t.freq = freq
		}
	}
}

// WithDetectors replaces the default pattern detector set.
func WithDetectors(detectors []detect.Detector) Option {
	return func(t *Tracker) {
		t.detectors = detectors
	}
}

// WithClock injects the time source (used by deterministic tests).
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}
