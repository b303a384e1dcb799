package model

import (
	"fmt"
	"time"
)

// RenderRecord is the immutable snapshot of one render event. It is
// constructed once by the tracker and never mutated; the ring buffer
// owns it until FIFO eviction.
type RenderRecord struct {
	// ID is a deterministic identifier composed from uid, a sequence
	// counter and the timestamp. Stable UI key, not an equality token.
	ID string `json:"id"`

	UID           string    `json:"uid"`
	ComponentName string    `json:"componentName"`
	Timestamp     time.Time `json:"timestamp"`

	// Duration is nil when the hook did not measure the render.
	Duration *time.Duration `json:"duration,omitempty"`

	Reason           string `json:"reason,omitempty"`
	IsUnnecessary    bool   `json:"isUnnecessary"`
	TriggerMechanism string `json:"triggerMechanism"`
	TriggerSource    string `json:"triggerSource"`

	// Only causation counts are retained, never the full payloads.
	EventTriggerCount       int `json:"eventTriggerCount"`
	ReactivityTrackingCount int `json:"reactivityTrackingCount"`
	ReactivityTriggerCount  int `json:"reactivityTriggerCount"`

	// Patterns holds anti-pattern names detected for this render,
	// merging hook-reported enhancedPatterns with detector results.
	Patterns []string `json:"patterns,omitempty"`

	PropsDiff map[string]any `json:"propsDiff,omitempty"`

	// Extra carries uninterpreted event fields through unchanged.
	Extra map[string]any `json:"extra,omitempty"`
}

// RecordID derives the deterministic record identifier.
func RecordID(uid string, seq uint64, ts time.Time) string {
	return fmt.Sprintf("%s-%d-%d", uid, seq, ts.UnixMilli())
}

// ComponentStats is the mutable per-uid aggregate. One entry exists per
// distinct component instance, created lazily on its first render.
type ComponentStats struct {
	UID                string        `json:"uid"`
	ComponentName      string        `json:"componentName"`
	TotalRenders       int           `json:"totalRenders"`
	UnnecessaryRenders int           `json:"unnecessaryRenders"`
	TotalDuration      time.Duration `json:"totalDuration"`
	AvgDuration        time.Duration `json:"avgDuration"`
	FirstSeen          time.Time     `json:"firstSeen"`
	LastSeen           time.Time     `json:"lastSeen"`

	// measured counts renders that reported a duration; the average is
	// taken over these, not over TotalRenders.
	measured int
}

// Observe folds one record into the aggregate.
func (s *ComponentStats) Observe(rec *RenderRecord) {
	s.TotalRenders++
	if rec.IsUnnecessary {
		s.UnnecessaryRenders++
	}
	if rec.Duration != nil {
		s.TotalDuration += *rec.Duration
		s.measured++
		s.AvgDuration = s.TotalDuration / time.Duration(s.measured)
	}
	if s.FirstSeen.IsZero() || rec.Timestamp.Before(s.FirstSeen) {
		s.FirstSeen = rec.Timestamp
	}
	if rec.Timestamp.After(s.LastSeen) {
		s.LastSeen = rec.Timestamp
	}
	if rec.ComponentName != "" {
		s.ComponentName = rec.ComponentName
	}
}

// Clone returns a copy safe to hand to readers while the tracker keeps
// mutating the original.
func (s *ComponentStats) Clone() ComponentStats {
	return *s
}
