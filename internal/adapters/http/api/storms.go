// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// StormsHandler handles render storm queries.
type StormsHandler struct {
	deps Dependencies
}

// NewStormsHandler creates a new storms handler.
func NewStormsHandler(deps Dependencies) *StormsHandler {
	return &StormsHandler{deps: deps}
}

// HandleStorms handles GET /storms requests.
func (h *StormsHandler) HandleStorms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ActiveStorms())
}
