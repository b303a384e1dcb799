// Package tracker is the aggregation core: it ingests render events,
// keeps a bounded FIFO ring of records, maintains per-component rolling
// statistics and feeds the storm frequency tracker.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/detect"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/metrics"
)

// Default tracker configuration constants.
const (
	defaultMaxRecords = 1000
)

// Tracker owns the ring buffer, the stats map and the frequency
// tracker exclusively; instances share no state, so separate trackers
// are safe side by side.
type Tracker struct {
	mu         sync.RWMutex
	records    []*model.RenderRecord
	maxRecords int
	stats      map[string]*model.ComponentStats
	freq       *perf.FrequencyTracker
	detectors  []detect.Detector
	seq        uint64
	now        func() time.Time
}

// New creates a tracker with configuration options.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		maxRecords: defaultMaxRecords,
		stats:      make(map[string]*model.ComponentStats),
		detectors:  detect.All(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.freq == nil {
		t.freq = perf.NewFrequencyTracker()
	}
	t.records = make([]*model.RenderRecord, 0, t.maxRecords)

	metrics.UpdateRingCapacity(t.maxRecords)
	metrics.UpdateRingSize(0)

	return t
}

// TrackRender ingests one render event: builds the immutable record,
// appends it to the ring (evicting FIFO at capacity), folds it into the
// per-uid stats and records the timestamp with the frequency tracker.
// Missing optional fields default; the call never fails.
func (t *Tracker) TrackRender(ctx context.Context, ev model.RenderEvent) *model.RenderRecord {
	start := time.Now()
	defer func() {
		metrics.RecordTrackLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.buildRecordLocked(ev)

	// Ring append with strict FIFO eviction.
	t.records = append(t.records, rec)
	for len(t.records) > t.maxRecords {
		t.records = t.records[1:]
		metrics.RecordRingEviction()
	}
	metrics.UpdateRingSize(len(t.records))

	// Per-uid rolling stats, created lazily on first sight.
	stats, ok := t.stats[rec.UID]
	if !ok {
		stats = &model.ComponentStats{UID: rec.UID}
		t.stats[rec.UID] = stats
		metrics.UpdateComponentCount(len(t.stats))
	}
	stats.Observe(rec)

	// Storm frequency feed, keyed by identity plus display context.
	key := stormKey(rec.UID, rec.ComponentName)
	t.freq.RecordRender(key, rec.Timestamp)
	if t.freq.Frequency(key, rec.Timestamp) == t.freq.Threshold() {
		metrics.RecordStormDetected()
	}

	metrics.RecordRenderTracked()
	if rec.IsUnnecessary {
		metrics.RecordUnnecessaryRender()
	}
	if rec.Duration != nil {
		metrics.RecordRenderDuration(float64(rec.Duration.Microseconds()) / 1000.0)
	}

	return rec
}

// buildRecordLocked constructs the immutable record from an event,
// applying defaults. Caller must hold t.mu.
func (t *Tracker) buildRecordLocked(ev model.RenderEvent) *model.RenderRecord {
	ts := t.now()
	if ev.Timestamp > 0 {
		ts = time.UnixMilli(ev.Timestamp)
	}

	var duration *time.Duration
	if ev.Duration != nil {
		d := time.Duration(*ev.Duration * float64(time.Millisecond))
		duration = &d
	}

	mechanism := ev.TriggerMechanism
	if mechanism == "" {
		mechanism = model.UnknownTrigger
	}
	source := ev.TriggerSource
	if source == "" {
		source = model.UnknownTrigger
	}

	patterns := append([]string(nil), ev.EnhancedPatterns...)
	if ev.InstanceContext != nil {
		for _, d := range t.detectors {
			if d.Detect(ev.InstanceContext) {
				patterns = append(patterns, d.Name)
				metrics.RecordPatternDetection(d.Name)
			}
		}
	}

	t.seq++
	return &model.RenderRecord{
		ID:                      model.RecordID(ev.UID, t.seq, ts),
		UID:                     ev.UID,
		ComponentName:           ev.ComponentName,
		Timestamp:               ts,
		Duration:                duration,
		Reason:                  ev.Reason,
		IsUnnecessary:           ev.IsUnnecessary,
		TriggerMechanism:        mechanism,
		TriggerSource:           source,
		EventTriggerCount:       model.CausationCount(ev.EventTrigger),
		ReactivityTrackingCount: model.CausationCount(ev.ReactivityTracking),
		ReactivityTriggerCount:  model.CausationCount(ev.ReactivityTriggers),
		Patterns:                patterns,
		PropsDiff:               ev.PropsDiff,
		Extra:                   ev.Extra,
	}
}

// stormKey combines instance identity with its display context.
func stormKey(uid, componentName string) string {
	return uid + ":" + componentName
}

// RecentRecords returns records most-recent-first. A non-positive limit
// returns all records.
func (t *Tracker) RecentRecords(limit int) []*model.RenderRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := len(t.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*model.RenderRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, t.records[i])
	}
	return out
}

// ComponentRecords returns records for one uid, most-recent-first. An
// untracked uid yields an empty slice.
func (t *Tracker) ComponentRecords(uid string, limit int) []*model.RenderRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*model.RenderRecord, 0)
	for i := len(t.records) - 1; i >= 0; i-- {
		if t.records[i].UID != uid {
			continue
		}
		out = append(out, t.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// UnnecessaryRenders returns records classified unnecessary,
// most-recent-first.
func (t *Tracker) UnnecessaryRenders(limit int) []*model.RenderRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*model.RenderRecord, 0)
	for i := len(t.records) - 1; i >= 0; i-- {
		if !t.records[i].IsUnnecessary {
			continue
		}
		out = append(out, t.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// AllStats returns a snapshot of every component's aggregate, one per
// tracked uid.
func (t *Tracker) AllStats() []model.ComponentStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]model.ComponentStats, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, s.Clone())
	}
	return out
}

// Stats returns the aggregate for one uid, or false when untracked.
func (t *Tracker) Stats(uid string) (model.ComponentStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.stats[uid]
	if !ok {
		return model.ComponentStats{}, false
	}
	return s.Clone(), true
}

// ActiveStorms returns the components currently in a render storm.
func (t *Tracker) ActiveStorms() []perf.Storm {
	storms := t.freq.ActiveStorms()
	metrics.UpdateStormsActive(len(storms))
	return storms
}

// Len returns the current number of records in the ring.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// ComponentCount returns the number of tracked component instances.
func (t *Tracker) ComponentCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.stats)
}

// Clear empties the ring buffer and stats map and resets the frequency
// tracker. Idempotent.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = t.records[:0]
	t.stats = make(map[string]*model.ComponentStats)
	t.seq = 0
	t.freq.Clear()

	metrics.UpdateRingSize(0)
	metrics.UpdateComponentCount(0)
	metrics.UpdateStormsActive(0)
}
