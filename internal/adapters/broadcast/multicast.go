package broadcast

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/metrics"
)

// Default multicast transport configuration constants.
const (
	defaultGroupAddress = "239.77.86.1:9777"

	// maxFrameSize bounds one UDP datagram; envelopes above it are
	// rejected rather than silently truncated.
	maxFrameSize = 60000

	defaultMessageBuffer = 256
)

// MulticastTransport exchanges envelope frames over a UDP multicast
// group. Every inspector instance on the segment joins the same group,
// so a single send reaches all of them without a broker.
type MulticastTransport struct {
	group    *net.UDPAddr
	recv     *net.UDPConn
	send     *net.UDPConn
	messages chan []byte
	log      logger.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewMulticastTransport joins the multicast group and starts the read
// loop. It fails when the socket cannot be opened, which is the signal
// for the broadcaster to fall back to the storage transport.
func NewMulticastTransport(groupAddress string, log logger.Logger) (*MulticastTransport, error) {
	group, err := net.ResolveUDPAddr("udp4", groupAddress)
	if err != nil {
		return nil, fmt.Errorf("broadcast: resolve group %q: %w", groupAddress, err)
	}

	recv, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return nil, fmt.Errorf("broadcast: join group %q: %w", groupAddress, err)
	}
	if err := recv.SetReadBuffer(maxFrameSize); err != nil {
		log.Warn(context.Background(), "failed to size multicast read buffer", logger.Error(err))
	}

	send, err := net.DialUDP("udp4", nil, group)
	if err != nil {
		_ = recv.Close()
		return nil, fmt.Errorf("broadcast: dial group %q: %w", groupAddress, err)
	}

	t := &MulticastTransport{
		group:    group,
		recv:     recv,
		send:     send,
		messages: make(chan []byte, defaultMessageBuffer),
		log:      log,
		done:     make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

// Send publishes one frame as a single datagram.
func (t *MulticastTransport) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(payload) > maxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if _, err := t.send.Write(payload); err != nil {
		return fmt.Errorf("broadcast: multicast write: %w", err)
	}
	return nil
}

// Messages returns the inbound frame channel.
func (t *MulticastTransport) Messages() <-chan []byte {
	return t.messages
}

// Name identifies the transport in logs and metrics.
func (t *MulticastTransport) Name() string {
	return "multicast"
}

// readLoop drains the socket until Close. Frames are dropped, not
// queued unboundedly, when the consumer falls behind.
func (t *MulticastTransport) readLoop() {
	defer close(t.messages)

	buf := make([]byte, maxFrameSize)
	for {
		n, _, err := t.recv.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-t.done:
				return
			default:
			}
			t.log.Debug(context.Background(), "multicast read failed", logger.Error(err))
			metrics.RecordBroadcastError(t.Name(), "read")
			continue
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		select {
		case t.messages <- frame:
		default:
			metrics.RecordBroadcastDropped()
		}
	}
}

// Close leaves the group and stops the read loop. Idempotent.
func (t *MulticastTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)

	err := t.recv.Close()
	if serr := t.send.Close(); err == nil {
		err = serr
	}
	return err
}
