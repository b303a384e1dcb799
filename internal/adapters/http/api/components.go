// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// ComponentsHandler handles per-component stats and record queries.
type ComponentsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewComponentsHandler creates a new components handler.
func NewComponentsHandler(deps Dependencies, maxLimit int) *ComponentsHandler {
	return &ComponentsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleList handles GET /components requests.
func (h *ComponentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AllStats())
}

// HandleComponent handles GET /components/{uid} and
// GET /components/{uid}/records requests.
func (h *ComponentsHandler) HandleComponent(w http.ResponseWriter, r *http.Request) {
	const op = "api.component"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract path parameters after /components/
	path := strings.TrimPrefix(r.URL.Path, "/components/")
	uid, rest, _ := strings.Cut(path, "/")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch rest {
	case "":
		stats, ok := h.deps.Stats(uid)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, stats)
	case "records":
		limit, err := parseLimit(r, h.maxLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeJSON(w, http.StatusOK, h.deps.ComponentRecords(uid, limit))
	default:
		http.NotFound(w, r)
	}
}
