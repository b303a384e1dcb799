package broadcast

import "errors"

// Error kinds for broadcast operations.
var (
	// ErrClosed is returned when operating on a closed broadcaster or
	// transport.
	ErrClosed = errors.New("broadcast: closed")

	// ErrTransportUnavailable is returned when neither the multicast
	// socket nor the storage fallback could be set up.
	ErrTransportUnavailable = errors.New("broadcast: no transport available")

	// ErrPayloadTooLarge is returned when an envelope exceeds the
	// transport's frame limit.
	ErrPayloadTooLarge = errors.New("broadcast: payload too large")
)
