// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
)

// eventSchema validates the ingest payload shape before it reaches the
// tracker. Unknown fields pass through; the tracker preserves them.
var eventSchema = gojsonschema.NewGoLoader(map[string]any{
	"type":     "object",
	"required": []any{"uid"},
	"properties": map[string]any{
		"uid":              map[string]any{"type": "string", "minLength": 1},
		"componentName":    map[string]any{"type": "string"},
		"timestamp":        map[string]any{"type": "integer", "minimum": 0},
		"duration":         map[string]any{"type": []any{"number", "null"}, "minimum": 0},
		"reason":           map[string]any{"type": "string"},
		"isUnnecessary":    map[string]any{"type": "boolean"},
		"triggerMechanism": map[string]any{"type": "string"},
		"triggerSource":    map[string]any{"type": "string"},
		"enhancedPatterns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"propsDiff":        map[string]any{"type": "object"},
		"instanceContext":  map[string]any{"type": "object"},
	},
})

// EventsHandler handles render event ingest requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := gojsonschema.Validate(eventSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, errors.New(strings.Join(issues, "; "))))
		return
	}

	var ev model.RenderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec := h.deps.TrackRender(r.Context(), ev)
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: rec.ID})
}
