// Package worker drains the record queue into the archive.
package worker

import (
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithTimer sets the timer used to measure archive writes. Workers in a
// pool may share one.
func WithTimer(timer *perf.Timer) Option {
	return func(w *InMemoryWorker) {
		if timer != nil {
			w.timer = timer
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
