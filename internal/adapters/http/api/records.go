// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
)

// RecordsHandler handles render record queries and the clear operation.
type RecordsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies, maxLimit int) *RecordsHandler {
	return &RecordsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleRecords handles GET and DELETE /records requests.
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.records"
	switch r.Method {
	case http.MethodGet:
		limit, err := parseLimit(r, h.maxLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeJSON(w, http.StatusOK, h.deps.RecentRecords(limit))
	case http.MethodDelete:
		h.deps.Clear()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// HandleUnnecessary handles GET /records/unnecessary requests.
func (h *RecordsHandler) HandleUnnecessary(w http.ResponseWriter, r *http.Request) {
	const op = "api.records_unnecessary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := parseLimit(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.UnnecessaryRenders(limit))
}

// parseLimit reads the optional limit query parameter. Absent means
// "up to the ceiling"; explicit values are validated and clamped.
func parseLimit(r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return maxLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
