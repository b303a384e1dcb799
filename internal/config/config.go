// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxRecords bounds the in-memory render record ring.
	MaxRecords int `koanf:"max_records"`

	// StormWindowMS is the sliding window for render storm detection.
	StormWindowMS int `koanf:"storm_window_ms"`

	// StormThreshold is the in-window render count that flags a storm.
	StormThreshold int `koanf:"storm_threshold"`

	// MovingAvgWindow sets the sample count for duration averages.
	MovingAvgWindow int `koanf:"moving_avg_window"`

	// MaxQueryLimit caps ?limit on record queries.
	MaxQueryLimit int `koanf:"max_query_limit"`

	// BroadcastGroup is the UDP multicast group used to mirror render
	// events across instances.
	BroadcastGroup string `koanf:"broadcast_group"`

	// BroadcastStorageDir hosts the fallback transport's shared file.
	// Empty means the OS temp dir.
	BroadcastStorageDir string `koanf:"broadcast_storage_dir"`

	// ArchivePath is the SQLite database file. ":memory:" keeps the
	// archive ephemeral.
	ArchivePath string `koanf:"archive_path"`

	// ArchiveQueueSize bounds the in-memory archive write queue.
	ArchiveQueueSize int `koanf:"archive_queue_size"`

	// WorkerCount sets the number of archive workers.
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config with defaults. Load layers file and environment
// overrides on top of these values.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		MaxRecords:       1000,
		StormWindowMS:    1000,
		StormThreshold:   5,
		MovingAvgWindow:  10,
		MaxQueryLimit:    100,
		BroadcastGroup:   "239.77.86.1:9777",
		ArchivePath:      "inspector.db",
		ArchiveQueueSize: 10_000,
		WorkerCount:      runtime.NumCPU() * 2,
	}
}
