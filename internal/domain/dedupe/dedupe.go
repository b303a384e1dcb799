// Package dedupe tracks already-seen frame ids so duplicate deliveries
// are dispatched at most once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen frame IDs to ensure at-most-once dispatch.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records
	// it if not. It returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of ids currently retained.
	Size() int64
}

// inMemoryDeduper keeps recent ids in a fixed-capacity ring alongside a
// lookup map. When the ring is full the oldest id is dropped to make
// room. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper with configuration
// options. The default bound retains the most recent 4096 ids.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 4096,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

// SeenAndRecord checks and records id under one lock acquisition. The
// empty id is reserved as the ring's vacant marker; callers pass
// uuid-valued frame ids.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if evicted := d.ring[d.next]; evicted != "" {
			delete(d.seen, evicted)
		}
		d.ring[d.next] = id
		d.next = (d.next + 1) % d.maxSize
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
