package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/adapters/http/api"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/perf"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockTracker struct {
	records []*model.RenderRecord
	stats   map[string]model.ComponentStats
	storms  []perf.Storm
	cleared bool
	seq     int
}

func newMockTracker() *mockTracker {
	return &mockTracker{stats: make(map[string]model.ComponentStats)}
}

func (m *mockTracker) TrackRender(ctx context.Context, ev model.RenderEvent) *model.RenderRecord {
	m.seq++
	rec := &model.RenderRecord{
		ID:            fmt.Sprintf("%s-%d", ev.UID, m.seq),
		UID:           ev.UID,
		ComponentName: ev.ComponentName,
		Timestamp:     time.Now(),
		IsUnnecessary: ev.IsUnnecessary,
	}
	m.records = append(m.records, rec)
	return rec
}

func (m *mockTracker) RecentRecords(limit int) []*model.RenderRecord {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]*model.RenderRecord, 0, limit)
	for i := len(m.records) - 1; i >= len(m.records)-limit; i-- {
		out = append(out, m.records[i])
	}
	return out
}

func (m *mockTracker) ComponentRecords(uid string, limit int) []*model.RenderRecord {
	out := make([]*model.RenderRecord, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UID == uid {
			out = append(out, m.records[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (m *mockTracker) UnnecessaryRenders(limit int) []*model.RenderRecord {
	out := make([]*model.RenderRecord, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].IsUnnecessary {
			out = append(out, m.records[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (m *mockTracker) AllStats() []model.ComponentStats {
	out := make([]model.ComponentStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, s)
	}
	return out
}

func (m *mockTracker) Stats(uid string) (model.ComponentStats, bool) {
	s, ok := m.stats[uid]
	return s, ok
}

func (m *mockTracker) ActiveStorms() []perf.Storm { return m.storms }

func (m *mockTracker) Clear() {
	m.cleared = true
	m.records = nil
	m.stats = make(map[string]model.ComponentStats)
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockTracker()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"records": 0}}
		server := api.NewServer(deps, statsProvider, 100)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux, deps)

			Convey("And health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And events endpoint should reject an empty payload", func() {
				req := httptest.NewRequest("POST", "/events", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest) // missing uid
			})

			Convey("And records endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/records", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And storms endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/storms", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And root endpoint should catch everything else", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestEventsHandler_HandlePostEvent(t *testing.T) {
	Convey("Given an events handler", t, func() {
		deps := newMockTracker()
		handler := api.NewEventsHandler(deps)

		Convey("When handling a valid POST request", func() {
			validEvent := `{
				"uid": "cmp-1",
				"componentName": "UserList",
				"timestamp": 1756032000000,
				"duration": 12.5,
				"isUnnecessary": true,
				"triggerMechanism": "props",
				"triggerSource": "items"
			}`

			req := httptest.NewRequest("POST", "/events", strings.NewReader(validEvent))
			w := httptest.NewRecorder()

			Convey("Then it should return accepted status with the record id", func() {
				handler.HandlePostEvent(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response struct {
					Status string `json:"status"`
					ID     string `json:"id"`
				}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.ID, ShouldEqual, "cmp-1-1")
				So(deps.records, ShouldHaveLength, 1)
			})
		})

		Convey("When handling an event with unknown extra fields", func() {
			event := `{"uid": "cmp-2", "futureField": {"nested": true}}`
			req := httptest.NewRequest("POST", "/events", strings.NewReader(event))
			w := httptest.NewRecorder()

			Convey("Then the payload should still be accepted", func() {
				handler.HandlePostEvent(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/events", strings.NewReader(`{invalid json`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostEvent(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the uid is missing", func() {
			req := httptest.NewRequest("POST", "/events", strings.NewReader(`{"componentName": "X"}`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostEvent(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.records, ShouldBeEmpty)
			})
		})

		Convey("When a field has the wrong type", func() {
			req := httptest.NewRequest("POST", "/events", strings.NewReader(`{"uid": "cmp-1", "duration": "fast"}`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostEvent(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/events", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandlePostEvent(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRecordsHandler(t *testing.T) {
	Convey("Given a records handler with tracked renders", t, func() {
		deps := newMockTracker()
		for i := 0; i < 5; i++ {
			deps.TrackRender(context.Background(), model.RenderEvent{
				UID:           fmt.Sprintf("cmp-%d", i),
				IsUnnecessary: i%2 == 0,
			})
		}
		handler := api.NewRecordsHandler(deps, 100)

		Convey("When requesting recent records with a limit", func() {
			req := httptest.NewRequest("GET", "/records?limit=2", nil)
			w := httptest.NewRecorder()
			handler.HandleRecords(w, req)

			Convey("Then it should return that many, newest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []model.RenderRecord
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 2)
				So(response[0].UID, ShouldEqual, "cmp-4")
			})
		})

		Convey("When the limit is not a positive integer", func() {
			req := httptest.NewRequest("GET", "/records?limit=zero", nil)
			w := httptest.NewRecorder()
			handler.HandleRecords(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When requesting unnecessary renders", func() {
			req := httptest.NewRequest("GET", "/records/unnecessary", nil)
			w := httptest.NewRecorder()
			handler.HandleUnnecessary(w, req)

			Convey("Then only unnecessary ones should return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []model.RenderRecord
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 3)
				for _, rec := range response {
					So(rec.IsUnnecessary, ShouldBeTrue)
				}
			})
		})

		Convey("When deleting all records", func() {
			req := httptest.NewRequest("DELETE", "/records", nil)
			w := httptest.NewRecorder()
			handler.HandleRecords(w, req)

			Convey("Then the tracker should be cleared", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(deps.cleared, ShouldBeTrue)
			})
		})
	})
}

func TestComponentsHandler(t *testing.T) {
	Convey("Given a components handler", t, func() {
		deps := newMockTracker()
		deps.stats["cmp-1"] = model.ComponentStats{
			UID:           "cmp-1",
			ComponentName: "UserList",
			TotalRenders:  7,
		}
		deps.TrackRender(context.Background(), model.RenderEvent{UID: "cmp-1"})
		handler := api.NewComponentsHandler(deps, 100)

		Convey("When listing all components", func() {
			req := httptest.NewRequest("GET", "/components", nil)
			w := httptest.NewRecorder()
			handler.HandleList(w, req)

			Convey("Then stats for each should return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []model.ComponentStats
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 1)
				So(response[0].TotalRenders, ShouldEqual, 7)
			})
		})

		Convey("When requesting one component's stats", func() {
			req := httptest.NewRequest("GET", "/components/cmp-1", nil)
			w := httptest.NewRecorder()
			handler.HandleComponent(w, req)

			Convey("Then its aggregate should return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response model.ComponentStats
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.ComponentName, ShouldEqual, "UserList")
			})
		})

		Convey("When the component is unknown", func() {
			req := httptest.NewRequest("GET", "/components/missing", nil)
			w := httptest.NewRecorder()
			handler.HandleComponent(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When requesting one component's records", func() {
			req := httptest.NewRequest("GET", "/components/cmp-1/records", nil)
			w := httptest.NewRecorder()
			handler.HandleComponent(w, req)

			Convey("Then its records should return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []model.RenderRecord
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 1)
				So(response[0].UID, ShouldEqual, "cmp-1")
			})
		})
	})
}

func TestStormsHandler(t *testing.T) {
	Convey("Given a storms handler", t, func() {
		deps := newMockTracker()
		deps.storms = []perf.Storm{
			{Key: "cmp-1:Spinner", Count: 12, Severity: perf.SeverityWarning},
		}
		handler := api.NewStormsHandler(deps)

		Convey("When requesting active storms", func() {
			req := httptest.NewRequest("GET", "/storms", nil)
			w := httptest.NewRecorder()
			handler.HandleStorms(w, req)

			Convey("Then the storm list should return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []perf.Storm
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 1)
				So(response[0].Key, ShouldEqual, "cmp-1:Spinner")
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"total_renders":   1000,
				"component_count": 150,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["total_renders"], ShouldEqual, 1000)
				So(response["component_count"], ShouldEqual, 150)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
