package perf

import (
	"sort"
	"sync"
	"time"
)

// Default frequency tracker configuration constants.
const (
	defaultStormWindow    = time.Second
	defaultStormThreshold = 5

	// criticalMultiplier escalates severity when the in-window count
	// reaches this multiple of the threshold. Tunable policy, not a
	// hard contract.
	criticalMultiplier = 3
)

// Severity grades an active storm.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Storm describes one component key currently at or above threshold.
type Storm struct {
	Key      string   `json:"key"`
	Count    int      `json:"count"`
	Severity Severity `json:"severity"`
}

// FrequencyTracker counts render timestamps per component key inside a
// sliding time window. Entries older than the window are pruned lazily
// on query, so a later query never under-counts still-in-window events.
type FrequencyTracker struct {
	mu        sync.Mutex
	history   map[string][]time.Time
	window    time.Duration
	threshold int
	now       func() time.Time
}

// NewFrequencyTracker creates a tracker with configuration options.
func NewFrequencyTracker(opts ...FrequencyOption) *FrequencyTracker {
	f := &FrequencyTracker{
		history:   make(map[string][]time.Time),
		window:    defaultStormWindow,
		threshold: defaultStormThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RecordRender appends a timestamp to the key's history.
func (f *FrequencyTracker) RecordRender(key string, ts time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[key] = append(f.history[key], ts)
}

// Frequency returns the number of renders for key within
// [now-window, now], pruning older entries for that key as a side effect.
func (f *FrequencyTracker) Frequency(key string, now time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pruneLocked(key, now)
}

// pruneLocked drops entries older than the window and returns the
// remaining in-window count. Caller must hold f.mu.
func (f *FrequencyTracker) pruneLocked(key string, now time.Time) int {
	entries, ok := f.history[key]
	if !ok {
		return 0
	}

	cutoff := now.Add(-f.window)
	// Timestamps are caller-supplied and can arrive out of order, so
	// filter linearly instead of assuming a sorted history.
	kept := entries[:0]
	for _, ts := range entries {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(f.history, key)
		return 0
	}
	f.history[key] = kept
	return len(kept)
}

// IsRenderStorm reports whether key is at or above the storm threshold
// right now.
func (f *FrequencyTracker) IsRenderStorm(key string) bool {
	return f.Frequency(key, f.now()) >= f.threshold
}

// ActiveStorms returns every key currently at or above threshold with
// its live count and severity.
func (f *FrequencyTracker) ActiveStorms() []Storm {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	var storms []Storm
	for key := range f.history {
		count := f.pruneLocked(key, now)
		if count < f.threshold {
			continue
		}
		severity := SeverityWarning
		if count >= f.threshold*criticalMultiplier {
			severity = SeverityCritical
		}
		storms = append(storms, Storm{Key: key, Count: count, Severity: severity})
	}

	sort.Slice(storms, func(i, j int) bool {
		if storms[i].Count != storms[j].Count {
			return storms[i].Count > storms[j].Count
		}
		return storms[i].Key < storms[j].Key
	})
	return storms
}

// Threshold returns the configured storm threshold.
func (f *FrequencyTracker) Threshold() int {
	return f.threshold
}

// Clear wipes all per-key history.
func (f *FrequencyTracker) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = make(map[string][]time.Time)
}
