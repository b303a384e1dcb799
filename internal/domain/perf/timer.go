// Package perf provides the measurement primitives the tracker leans
// on: monotonic timers, a bounded moving average, and a sliding-window
// frequency tracker for render storms.
package perf

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timer measures elapsed time per opaque handle. Many handles may be
// open at once; ending an unknown or already-ended handle returns nil.
type Timer struct {
	mu      sync.Mutex
	pending map[string]time.Time
	now     func() time.Time
}

// NewTimer creates an empty timer.
func NewTimer(opts ...TimerOption) *Timer {
	t := &Timer{
		pending: make(map[string]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start opens a measurement and returns its handle. The label is kept
// in the handle for log readability; uniqueness comes from the uuid.
func (t *Timer) Start(label string) string {
	handle := label + "-" + uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[handle] = t.now()
	return handle
}

// End closes a measurement and returns the elapsed time, or nil when
// the handle is unknown or was already ended.
func (t *Timer) End(handle string) *time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	start, ok := t.pending[handle]
	if !ok {
		return nil
	}
	delete(t.pending, handle)

	elapsed := t.now().Sub(start)
	return &elapsed
}

// Open returns the number of currently open handles.
func (t *Timer) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Clear discards all open handles; subsequent End calls on them return nil.
func (t *Timer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = make(map[string]time.Time)
}
