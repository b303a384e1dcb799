package model

// InstanceContext is a captured description of a component definition:
// source text of computed properties and lifecycle hooks, never live
// values. Pattern detectors read it; nothing in it is executed.
//
// Every field is optional. Computed entries and hook entries are duck
// typed on the wire: a plain source string, a {get, set} pair, or an
// object carrying only a source/toString representation.
type InstanceContext struct {
	ComponentName string         `json:"componentName,omitempty"`
	Computed      map[string]any `json:"computed,omitempty"`
	Hooks         map[string]any `json:"hooks,omitempty"`
	Watchers      map[string]any `json:"watchers,omitempty"`
	RenderSource  string         `json:"renderSource,omitempty"`
}
