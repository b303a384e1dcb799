package broadcast

import "time"

// BroadcasterOption applies a configuration option to a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithGroupAddress sets the multicast group the broadcaster joins.
func WithGroupAddress(address string) BroadcasterOption {
	return func(b *Broadcaster) {
		if address != "" {
			b.groupAddress = address
		}
	}
}

// WithStorageDir sets the directory the fallback transport uses.
func WithStorageDir(dir string) BroadcasterOption {
	return func(b *Broadcaster) {
		b.storageDir = dir
	}
}

// WithSender overrides the generated sender id.
func WithSender(sender string) BroadcasterOption {
	return func(b *Broadcaster) {
		if sender != "" {
			b.sender = sender
		}
	}
}

// WithTransport pins the transport, skipping the multicast-or-fallback
// probe at Init. Used by tests.
func WithTransport(t Transport) BroadcasterOption {
	return func(b *Broadcaster) {
		b.transport = t
	}
}

// FileOption applies a configuration option to a FileTransport.
type FileOption func(*FileTransport)

// WithCleanupDelay sets how long an envelope stays on disk.
func WithCleanupDelay(d time.Duration) FileOption {
	return func(t *FileTransport) {
		if d > 0 {
			t.cleanupDelay = d
		}
	}
}
