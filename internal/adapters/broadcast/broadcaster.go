package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/dedupe"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/metrics"
)

// Handler consumes render events received from other instances.
type Handler func(ev model.RenderEvent)

// Broadcaster is the cross-instance event channel. It publishes tracked
// events and fans received ones out to subscribers, filtering out its
// own frames by sender id.
type Broadcaster struct {
	sender       string
	groupAddress string
	storageDir   string
	log          logger.Logger
	seen         dedupe.Deduper

	mu        sync.Mutex
	transport Transport
	fallback  bool
	started   bool
	closed    bool

	handlers map[int]Handler
	nextID   int
}

// New creates a broadcaster with configuration options. Init must be
// called before Broadcast or Subscribe deliver anything.
func New(opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		sender:       uuid.NewString(),
		groupAddress: defaultGroupAddress,
		log:          logger.Get().Named("broadcast"),
		seen:         dedupe.NewInMemoryDeduper(),
		handlers:     make(map[int]Handler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init selects the transport and starts dispatching. Multicast is
// tried first; when the socket cannot be opened the storage fallback
// takes over. The decision is made once and holds for the broadcaster's
// lifetime. Calling Init again is a no-op.
func (b *Broadcaster) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.started {
		return nil
	}

	if b.transport == nil {
		transport, err := NewMulticastTransport(b.groupAddress, b.log)
		if err != nil {
			b.log.Warn(ctx, "multicast unavailable, falling back to storage transport",
				logger.String("group", b.groupAddress),
				logger.Error(err))
			fallbackTransport, ferr := NewFileTransport(b.storageDir, b.log)
			if ferr != nil {
				return fmt.Errorf("%w: multicast: %v, storage: %v", ErrTransportUnavailable, err, ferr)
			}
			b.transport = fallbackTransport
			b.fallback = true
		} else {
			b.transport = transport
		}
	}
	metrics.UpdateFallbackActive(b.fallback)

	b.started = true
	go b.dispatch(b.transport)

	b.log.Info(ctx, "broadcast channel ready",
		logger.String("transport", b.transport.Name()),
		logger.String("sender", b.sender))
	return nil
}

// Broadcast publishes one event to every other instance. Transport
// failures are logged and counted, never surfaced: a broken mirror
// must not break local tracking.
func (b *Broadcaster) Broadcast(ctx context.Context, ev model.RenderEvent) {
	b.mu.Lock()
	transport := b.transport
	started := b.started && !b.closed
	b.mu.Unlock()

	if !started {
		return
	}

	payload, err := json.Marshal(newEnvelope(b.sender, ev))
	if err != nil {
		b.log.Error(ctx, "failed to encode envelope", logger.Error(err))
		metrics.RecordBroadcastError(transport.Name(), "encode")
		return
	}

	if err := transport.Send(ctx, payload); err != nil {
		b.log.Debug(ctx, "failed to publish envelope", logger.Error(err))
		metrics.RecordBroadcastError(transport.Name(), "send")
		return
	}
	metrics.RecordBroadcastSent(transport.Name())
}

// Subscribe registers a handler for events from other instances. The
// returned function removes the subscription; calling it more than
// once is harmless.
func (b *Broadcaster) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Fallback reports whether the storage transport is active.
func (b *Broadcaster) Fallback() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fallback
}

// Sender returns this instance's sender id.
func (b *Broadcaster) Sender() string {
	return b.sender
}

// dispatch fans inbound frames out to subscribers until the transport
// closes its message channel.
func (b *Broadcaster) dispatch(transport Transport) {
	for payload := range transport.Messages() {
		env, ok := decodeEnvelope(payload)
		if !ok || env.Sender == b.sender {
			continue
		}
		// The storage transport can surface one store as several
		// filesystem notifications; dispatch each frame id once.
		if env.ID != "" && b.seen.SeenAndRecord(context.Background(), env.ID) {
			continue
		}
		metrics.RecordBroadcastReceived(transport.Name())

		b.mu.Lock()
		handlers := make([]Handler, 0, len(b.handlers))
		for _, h := range b.handlers {
			handlers = append(handlers, h)
		}
		b.mu.Unlock()

		for _, h := range handlers {
			h(env.Data)
		}
	}
}

// Close shuts the transport down. Idempotent.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if b.transport != nil {
		return b.transport.Close()
	}
	return nil
}
