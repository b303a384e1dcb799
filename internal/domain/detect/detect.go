// Package detect holds the anti-pattern detectors. Each detector is a
// pure predicate over a captured InstanceContext: it reads source text
// the instrumentation serialized, never live component state.
//
// Detection is deliberately string-based and isolated here so the
// matching strategy can change without touching the tracker. Malformed
// or missing structure always yields false, never a panic.
package detect

import (
	"fmt"
	"strings"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
)

// Pattern names reported on render records.
const (
	PatternNonDeterministicComputed = "non-deterministic-computed"
	PatternEventListenerLeak        = "event-listener-leak"
	PatternDeepWatcher              = "deep-watcher"
)

// Detector pairs a pattern name with its predicate.
type Detector struct {
	Name   string
	Detect func(ctx *model.InstanceContext) bool
}

// All returns the detector registry in a stable order.
func All() []Detector {
	return []Detector{
		{Name: PatternNonDeterministicComputed, Detect: NonDeterministicComputed},
		{Name: PatternEventListenerLeak, Detect: EventListenerLeak},
		{Name: PatternDeepWatcher, Detect: DeepWatcher},
	}
}

// Run applies every registered detector and returns the names of the
// patterns present. A nil context yields nil.
func Run(ctx *model.InstanceContext) []string {
	if ctx == nil {
		return nil
	}
	var found []string
	for _, d := range All() {
		if d.Detect(ctx) {
			found = append(found, d.Name)
		}
	}
	return found
}

// sourceOf normalizes a duck-typed source entry to text. Entries may be
// a plain string, a {get, set} pair, an object with a source field, a
// toString carrier, or anything implementing fmt.Stringer.
func sourceOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		for _, key := range []string{"get", "source", "handler", "toString"} {
			if inner, ok := t[key]; ok {
				if s := sourceOf(inner); s != "" {
					return s
				}
			}
		}
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

// containsAny reports whether s contains at least one of the markers.
func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
