package broadcast

import "context"

// Transport carries raw envelope frames between inspector instances.
type Transport interface {
	// Send publishes one frame to every other instance.
	Send(ctx context.Context, payload []byte) error

	// Messages returns the channel delivering frames from other
	// instances. The channel is closed when the transport closes.
	Messages() <-chan []byte

	// Name identifies the transport in logs and metrics.
	Name() string

	// Close releases the transport's resources. Idempotent.
	Close() error
}
