// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
)

// Default values applied when an event omits trigger metadata.
const (
	UnknownTrigger = "unknown"
)

// RenderEvent is the open wire record reported by instrumentation hooks.
// Known fields are typed; anything else survives a round trip through
// Extra so the tracker can preserve fields it does not interpret.
type RenderEvent struct {
	UID                string           `json:"uid"`
	ComponentName      string           `json:"componentName"`
	Timestamp          int64            `json:"timestamp"` // epoch milliseconds; 0 means "stamp on receive"
	Duration           *float64         `json:"duration,omitempty"`
	Reason             string           `json:"reason,omitempty"`
	IsUnnecessary      bool             `json:"isUnnecessary,omitempty"`
	TriggerMechanism   string           `json:"triggerMechanism,omitempty"`
	TriggerSource      string           `json:"triggerSource,omitempty"`
	EventTrigger       any              `json:"eventTrigger,omitempty"`
	ReactivityTracking any              `json:"reactivityTracking,omitempty"`
	ReactivityTriggers any              `json:"reactivityTriggers,omitempty"`
	EnhancedPatterns   []string         `json:"enhancedPatterns,omitempty"`
	PropsDiff          map[string]any   `json:"propsDiff,omitempty"`
	InstanceContext    *InstanceContext `json:"instanceContext,omitempty"`

	// Extra holds fields the tracker does not interpret.
	Extra map[string]any `json:"-"`
}

// knownEventKeys are the wire keys handled by the typed fields above.
var knownEventKeys = map[string]struct{}{
	"uid":                {},
	"componentName":      {},
	"timestamp":          {},
	"duration":           {},
	"reason":             {},
	"isUnnecessary":      {},
	"triggerMechanism":   {},
	"triggerSource":      {},
	"eventTrigger":       {},
	"reactivityTracking": {},
	"reactivityTriggers": {},
	"enhancedPatterns":   {},
	"propsDiff":          {},
	"instanceContext":    {},
}

// renderEventAlias avoids recursing into the custom unmarshaler.
type renderEventAlias RenderEvent

// UnmarshalJSON decodes known fields and stashes everything else in Extra.
func (e *RenderEvent) UnmarshalJSON(data []byte) error {
	var alias renderEventAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		if _, known := knownEventKeys[key]; known {
			continue
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			continue
		}
		if alias.Extra == nil {
			alias.Extra = make(map[string]any)
		}
		alias.Extra[key] = v
	}

	*e = RenderEvent(alias)
	return nil
}

// MarshalJSON re-merges Extra with the typed fields.
func (e RenderEvent) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(renderEventAlias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return typed, nil
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(typed, &merged); err != nil {
		return nil, err
	}
	for key, val := range e.Extra {
		if _, known := knownEventKeys[key]; known {
			continue
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			continue
		}
		merged[key] = encoded
	}
	return json.Marshal(merged)
}

// CausationCount reports how many entries a causation payload carries.
// Arrays and objects count their elements; a bare value counts as one.
func CausationCount(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	default:
		return 1
	}
}
