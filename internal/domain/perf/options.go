package perf

import "time"

// TimerOption applies a configuration option to a Timer.
type TimerOption func(*Timer)

// WithTimerClock injects the time source (used by deterministic tests).
func WithTimerClock(now func() time.Time) TimerOption {
	return func(t *Timer) {
		if now != nil {
			t.now = now
		}
	}
}

// AverageOption applies a configuration option to a MovingAverage.
type AverageOption func(*MovingAverage)

// WithWindowSize sets the number of samples the average retains.
func WithWindowSize(size int) AverageOption {
	return func(a *MovingAverage) {
		if size > 0 {
			a.window = size
		}
	}
}

// FrequencyOption applies a configuration option to a FrequencyTracker.
type FrequencyOption func(*FrequencyTracker)

// WithStormWindow sets the sliding window length.
func WithStormWindow(window time.Duration) FrequencyOption {
	return func(f *FrequencyTracker) {
		if window > 0 {
			f.window = window
		}
	}
}

// WithStormThreshold sets the in-window count that flags a storm.
func WithStormThreshold(threshold int) FrequencyOption {
	return func(f *FrequencyTracker) {
		if threshold > 0 {
			f.threshold = threshold
		}
	}
}

// WithFrequencyClock injects the time source (used by deterministic tests).
func WithFrequencyClock(now func() time.Time) FrequencyOption {
	return func(f *FrequencyTracker) {
		if now != nil {
			f.now = now
		}
	}
}
