// Package service provides the core business service that implements
// the dependencies required by the HTTP API. It wires the tracker, the
// cross-instance broadcaster and the archive pipeline together.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/adapters/broadcast"
	recordqueue "github.com/damianidczak/vue-render-inspector-sub002/internal/adapters/mq/queue"
	workerpool "github.com/damianidczak/vue-render-inspector-sub002/internal/adapters/mq/worker"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/adapters/repository"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/tracker"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/metrics"
)

// Service implements the API dependencies for the render inspector.
type Service struct {
	mu sync.RWMutex

	// Core components
	tracker     *tracker.Tracker
	broadcaster *broadcast.Broadcaster
	archive     repository.Archive
	recordQueue recordqueue.Queue
	workerPool  *workerpool.Pool

	// Rolling mean over recently measured render durations, in ms.
	durationAvg *perf.MovingAverage

	// Configuration
	maxRecords       int
	stormWindow      time.Duration
	stormThreshold   int
	movingAvgWindow  int
	broadcastGroup   string
	broadcastDir     string
	archivePath      string
	archiveQueueSize int
	workerCount      int

	// State
	started     bool
	unsubscribe func()

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMaxRecords caps the in-memory record ring.
func WithMaxRecords(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxRecords = max
		}
	}
}

// WithStormWindow sets the sliding window for storm detection.
func WithStormWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.stormWindow = window
		}
	}
}

// WithStormThreshold sets the in-window render count that flags a storm.
func WithStormThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.stormThreshold = threshold
		}
	}
}

// WithMovingAvgWindow sets the sample count for the duration average.
func WithMovingAvgWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.movingAvgWindow = window
		}
	}
}

// WithBroadcastGroup sets the multicast group for cross-instance mirroring.
func WithBroadcastGroup(group string) Option {
	return func(s *Service) {
		if group != "" {
			s.broadcastGroup = group
		}
	}
}

// WithBroadcastStorageDir sets the directory hosting the fallback
// transport's shared file.
func WithBroadcastStorageDir(dir string) Option {
	return func(s *Service) {
		s.broadcastDir = dir
	}
}

// WithArchivePath sets the SQLite database file.
func WithArchivePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.archivePath = path
		}
	}
}

// WithArchiveQueueSize bounds the archive write queue.
func WithArchiveQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.archiveQueueSize = size
		}
	}
}

// WithWorkerCount sets the number of archive workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxRecords:       1000,
		stormWindow:      time.Second,
		stormThreshold:   5,
		movingAvgWindow:  10,
		broadcastGroup:   "239.77.86.1:9777",
		archivePath:      "inspector.db",
		archiveQueueSize: 10_000,
		workerCount:      runtime.NumCPU() * 2,
		logger:           nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting render inspector service...")

	s.tracker = tracker.New(
		tracker.WithMaxRecords(s.maxRecords),
		tracker.WithFrequencyTracker(perf.NewFrequencyTracker(
			perf.WithStormWindow(s.stormWindow),
			perf.WithStormThreshold(s.stormThreshold),
		)),
	)
	s.durationAvg = perf.NewMovingAverage(
		perf.WithWindowSize(s.movingAvgWindow),
	)

	archive, err := repository.NewSQLiteArchive(s.archivePath)
	if err != nil {
		return err
	}
	s.archive = archive

	s.recordQueue = recordqueue.NewInMemoryQueue(
		recordqueue.WithCapacity(s.archiveQueueSize),
		recordqueue.WithBufferSize(s.archiveQueueSize),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.recordQueue, s.archive)
	s.workerPool.Start(ctx)

	s.broadcaster = broadcast.New(
		broadcast.WithGroupAddress(s.broadcastGroup),
		broadcast.WithStorageDir(s.broadcastDir),
	)
	if err := s.broadcaster.Init(ctx); err != nil {
		s.logger.Warn(ctx, "cross-instance mirroring disabled",
			logger.Error(err))
	} else {
		// Mirror remote events into the local tracker. Remote ingest
		// never re-broadcasts, so two instances cannot ping-pong.
		s.unsubscribe = s.broadcaster.Subscribe(func(ev model.RenderEvent) {
			s.ingest(context.Background(), ev, false)
		})
	}

	s.started = true
	s.logger.Info(ctx, "render inspector service started",
		logger.Int("maxRecords", s.maxRecords),
		logger.Int("stormThreshold", s.stormThreshold),
		logger.Int("workers", s.workerCount),
		logger.String("archive", s.archivePath),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping render inspector service...")

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.broadcaster != nil {
		_ = s.broadcaster.Close()
	}

	// Close the queue first so workers drain the backlog, then stop them.
	if s.recordQueue != nil {
		_ = s.recordQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.archive != nil {
		_ = s.archive.Close()
	}

	s.started = false
	s.logger.Info(ctx, "render inspector service stopped")
}

// TrackRender ingests a locally received render event, mirrors it to
// other instances and schedules it for archiving.
func (s *Service) TrackRender(ctx context.Context, ev model.RenderEvent) *model.RenderRecord {
	return s.ingest(ctx, ev, true)
}

// ingest runs one event through the tracker and the archive queue.
// local events are also broadcast; remote ones are not.
func (s *Service) ingest(ctx context.Context, ev model.RenderEvent, local bool) *model.RenderRecord {
	rec := s.tracker.TrackRender(ctx, ev)

	if rec.Duration != nil {
		s.durationAvg.Add(float64(rec.Duration.Microseconds()) / 1000.0)
	}

	if !s.recordQueue.Enqueue(ctx, rec) {
		s.logger.Warn(ctx, "archive queue full, record not persisted",
			logger.String("id", rec.ID))
	}
	metrics.UpdateQueueSize(s.recordQueue.Len(ctx))

	if local {
		s.broadcaster.Broadcast(ctx, ev)
	}
	return rec
}

// RecentRecords returns tracked records most-recent-first.
func (s *Service) RecentRecords(limit int) []*model.RenderRecord {
	return s.tracker.RecentRecords(limit)
}

// ComponentRecords returns records for one component instance.
func (s *Service) ComponentRecords(uid string, limit int) []*model.RenderRecord {
	return s.tracker.ComponentRecords(uid, limit)
}

// UnnecessaryRenders returns records classified unnecessary.
func (s *Service) UnnecessaryRenders(limit int) []*model.RenderRecord {
	return s.tracker.UnnecessaryRenders(limit)
}

// AllStats returns aggregates for every tracked component.
func (s *Service) AllStats() []model.ComponentStats {
	return s.tracker.AllStats()
}

// Stats returns the aggregate for one component, or false when untracked.
func (s *Service) Stats(uid string) (model.ComponentStats, bool) {
	return s.tracker.Stats(uid)
}

// ActiveStorms returns components currently in a render storm.
func (s *Service) ActiveStorms() []perf.Storm {
	return s.tracker.ActiveStorms()
}

// Clear drops all in-memory records and stats. Archived records survive.
func (s *Service) Clear() {
	s.tracker.Clear()
	s.durationAvg.Clear()
}

// ArchivedRecords returns up to limit archived records, newest first.
func (s *Service) ArchivedRecords(ctx context.Context, limit int) ([]*model.RenderRecord, error) {
	return s.archive.RecentRecords(ctx, limit)
}

// PurgeArchive removes archived records older than the cutoff.
func (s *Service) PurgeArchive(ctx context.Context, olderThan time.Time) (int64, error) {
	return s.archive.Purge(ctx, olderThan)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"maxRecords":     s.maxRecords,
		"stormThreshold": s.stormThreshold,
		"workerCount":    s.workerCount,
	}

	if s.started {
		queueLen := s.recordQueue.Len(ctx)
		stats["records"] = s.tracker.Len()
		stats["components"] = s.tracker.ComponentCount()
		stats["activeStorms"] = len(s.tracker.ActiveStorms())
		stats["avgRecentDurationMs"] = s.durationAvg.Get()
		stats["queueLength"] = queueLen
		stats["broadcastFallback"] = s.broadcaster.Fallback()

		if count, err := s.archive.Count(ctx); err == nil {
			stats["archivedRecords"] = count
		}

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateComponentCount(s.tracker.ComponentCount())
	}

	return stats
}
