// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// TrackRender ingests one render event and returns the stored record.
	TrackRender(ctx context.Context, ev model.RenderEvent) *model.RenderRecord

	// Read operations expose tracked render data.
	RecentRecords(limit int) []*model.RenderRecord
	ComponentRecords(uid string, limit int) []*model.RenderRecord
	UnnecessaryRenders(limit int) []*model.RenderRecord
	AllStats() []model.ComponentStats
	Stats(uid string) (model.ComponentStats, bool)
	ActiveStorms() []perf.Storm

	// Clear drops all in-memory records and stats.
	Clear()
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	eventsHandler     *EventsHandler
	recordsHandler    *RecordsHandler
	componentsHandler *ComponentsHandler
	stormsHandler     *StormsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxQueryLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		eventsHandler:     NewEventsHandler(deps),
		recordsHandler:    NewRecordsHandler(deps, maxQueryLimit),
		componentsHandler: NewComponentsHandler(deps, maxQueryLimit),
		stormsHandler:     NewStormsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandleRecords, "records"))
	mux.HandleFunc("/records/unnecessary", MetricsMiddleware(s.recordsHandler.HandleUnnecessary, "records_unnecessary"))
	mux.HandleFunc("/components", MetricsMiddleware(s.componentsHandler.HandleList, "components"))
	mux.HandleFunc("/components/", MetricsMiddleware(s.componentsHandler.HandleComponent, "component"))
	mux.HandleFunc("/storms", MetricsMiddleware(s.stormsHandler.HandleStorms, "storms"))
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
