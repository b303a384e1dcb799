package broadcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/metrics"
)

// Default file transport configuration constants.
const (
	// eventFileName is the well-known key every instance writes to and
	// watches.
	eventFileName = "vue-render-inspector-event.json"

	// defaultCleanupDelay is how long an envelope stays on disk before
	// the sender removes it. Long enough for watchers to pick it up,
	// short enough not to accumulate stale state.
	defaultCleanupDelay = 100 * time.Millisecond
)

// FileTransport exchanges envelope frames through a shared file watched
// with fsnotify. It is the degraded-mode stand-in for multicast: slower
// and lossy under bursts (a rapid second write replaces an unread
// first), but functional wherever instances share a filesystem.
type FileTransport struct {
	dir          string
	path         string
	cleanupDelay time.Duration
	watcher      *fsnotify.Watcher
	messages     chan []byte
	log          logger.Logger

	mu     sync.Mutex
	timers []*time.Timer
	closed bool
}

// NewFileTransport starts watching dir for envelope writes.
func NewFileTransport(dir string, log logger.Logger, opts ...FileOption) (*FileTransport, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("broadcast: create storage dir %q: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("broadcast: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("broadcast: watch %q: %w", dir, err)
	}

	t := &FileTransport{
		dir:          dir,
		path:         filepath.Join(dir, eventFileName),
		cleanupDelay: defaultCleanupDelay,
		watcher:      watcher,
		messages:     make(chan []byte, defaultMessageBuffer),
		log:          log,
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.watchLoop()
	return t, nil
}

// Send writes the frame to the shared file and schedules its removal.
// The write is staged through a temp file and renamed so watchers never
// observe a partial envelope.
func (t *FileTransport) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(t.dir, eventFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("broadcast: stage envelope: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("broadcast: write envelope: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("broadcast: close envelope: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("broadcast: publish envelope: %w", err)
	}

	path := t.path
	t.timers = append(t.timers, time.AfterFunc(t.cleanupDelay, func() {
		_ = os.Remove(path)
	}))
	return nil
}

// Messages returns the inbound frame channel.
func (t *FileTransport) Messages() <-chan []byte {
	return t.messages
}

// Name identifies the transport in logs and metrics.
func (t *FileTransport) Name() string {
	return "storage"
}

// watchLoop forwards envelope writes until Close.
func (t *FileTransport) watchLoop() {
	defer close(t.messages)

	for {
		select {
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != t.path || !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			payload, err := os.ReadFile(t.path)
			if err != nil || len(payload) == 0 {
				// Removal raced the read; the envelope was consumed.
				continue
			}
			select {
			case t.messages <- payload:
			default:
				metrics.RecordBroadcastDropped()
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Debug(context.Background(), "storage watch failed", logger.Error(err))
			metrics.RecordBroadcastError(t.Name(), "watch")
		}
	}
}

// Close stops the watcher and pending cleanup timers. Idempotent.
func (t *FileTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	for _, timer := range t.timers {
		timer.Stop()
	}
	t.timers = nil
	_ = os.Remove(t.path)

	return t.watcher.Close()
}
