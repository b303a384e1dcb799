package compare

// Change describes a top-level key whose value reference changed.
// SameReference and DeepEqual are both reported so callers can tell
// "different object, same content" apart from genuine content drift.
type Change struct {
	From          any  `json:"from"`
	To            any  `json:"to"`
	SameReference bool `json:"sameReference"`
	DeepEqual     bool `json:"deepEqual"`
}

// Diff is the structural difference between two prop/state snapshots,
// computed over own top-level keys only.
type Diff struct {
	Added   map[string]any    `json:"added"`
	Removed map[string]any    `json:"removed"`
	Changed map[string]Change `json:"changed"`
}

// Empty reports whether the diff carries no differences.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// ComputeDiff compares before and after by top-level key. Keys holding
// identical references are omitted entirely; keys present on one side
// only land in Added or Removed.
func ComputeDiff(before, after map[string]any) Diff {
	d := Diff{
		Added:   make(map[string]any),
		Removed: make(map[string]any),
		Changed: make(map[string]Change),
	}

	for key, from := range before {
		to, present := after[key]
		if !present {
			d.Removed[key] = from
			continue
		}
		if Identical(from, to) {
			continue
		}
		d.Changed[key] = Change{
			From:          from,
			To:            to,
			SameReference: Identical(from, to),
			DeepEqual:     DeepEqual(from, to),
		}
	}

	for key, to := range after {
		if _, present := before[key]; !present {
			d.Added[key] = to
		}
	}

	return d
}
