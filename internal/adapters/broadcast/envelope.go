// Package broadcast mirrors tracked render events to other inspector
// instances. The primary transport is UDP multicast; when the socket
// cannot be opened the broadcaster falls back to a shared storage file
// watched with fsnotify. The fallback decision is made once, at Init.
package broadcast

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
)

// Channel is the well-known channel name all inspector instances share.
const Channel = "vue-render-inspector"

// envelopeType tags render event envelopes on the wire.
const envelopeType = "render-event"

// Envelope is the wire frame around a render event. Receivers drop
// frames whose type or channel does not match, frames they sent
// themselves, and frames whose id was already dispatched.
type Envelope struct {
	Type      string            `json:"type"`
	ID        string            `json:"id"`
	Channel   string            `json:"channel"`
	Sender    string            `json:"sender"`
	Data      model.RenderEvent `json:"data"`
	Timestamp int64             `json:"timestamp"`
}

// newEnvelope wraps an event for the wire. The frame id lets receivers
// suppress duplicate deliveries; the storage transport can surface one
// store as several filesystem notifications.
func newEnvelope(sender string, ev model.RenderEvent) Envelope {
	return Envelope{
		Type:      envelopeType,
		ID:        uuid.NewString(),
		Channel:   Channel,
		Sender:    sender,
		Data:      ev,
		Timestamp: time.Now().UnixMilli(),
	}
}

// decodeEnvelope parses a wire frame. It returns false for payloads
// that are not well-formed render event envelopes for our channel.
func decodeEnvelope(payload []byte) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, false
	}
	if env.Type != envelopeType || env.Channel != Channel {
		return Envelope{}, false
	}
	return env, true
}
