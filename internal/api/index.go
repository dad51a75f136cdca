package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianmaps/atlas/internal/events"
	"github.com/meridianmaps/atlas/internal/index"
	"github.com/meridianmaps/atlas/internal/store"
)

type IndexHandler struct {
	engine *index.Engine
	store  store.Store
	events events.Publisher
	logger *slog.Logger
}

func NewIndexHandler(e *index.Engine, s store.Store, p events.Publisher, logger *slog.Logger) *IndexHandler {
	return &IndexHandler{engine: e, store: s, events: p, logger: logger}
}

func (h *IndexHandler) yearParam(r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	return year, err == nil
}

// schemeParam reads the scheme query parameter. An absent parameter means
// "equal", not an unknown-scheme fallback.
func schemeParam(r *http.Request) string {
	if s := r.URL.Query().Get("scheme"); s != "" {
		return s
	}
	return index.EqualScheme
}

func (h *IndexHandler) Composite(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return
	}
	scheme := schemeParam(r)

	results, err := h.engine.Composite(r.Context(), year, scheme)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	_, resolved, _ := h.engine.Schemes().Resolve(scheme)

	h.snapshot(r, year, resolved, results)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":            year,
		"scheme":          resolved,
		"total_countries": len(results),
		"results":         results,
	})
}

// snapshot persists and announces a composite run. Both sides are
// best-effort; a down database or broker never fails the request, but the
// degradation is logged.
func (h *IndexHandler) snapshot(r *http.Request, year int, scheme string, results map[string]*index.CompositeResult) {
	if h.store != nil {
		if payload, err := json.Marshal(results); err == nil {
			if err := h.store.SaveIndexSnapshot(r.Context(), &store.IndexSnapshot{
				Year:         year,
				Scheme:       scheme,
				CountryCount: len(results),
				Results:      payload,
			}); err != nil {
				h.logger.Warn("failed to persist index snapshot", "year", year, "scheme", scheme, "error", err)
			}
		}
	}
	if h.events != nil {
		if err := h.events.Publish(events.SubjectIndexComputed, events.IndexComputedEvent{
			EventID:      uuid.New(),
			Year:         year,
			Scheme:       scheme,
			CountryCount: len(results),
			Timestamp:    time.Now().UTC(),
		}); err != nil {
			h.logger.Warn("failed to publish index event", "year", year, "error", err)
		}
	}
}

func (h *IndexHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return
	}
	scheme := schemeParam(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rankings, err := h.engine.Rankings(r.Context(), year, scheme, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

func (h *IndexHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return
	}
	code := chi.URLParam(r, "code")
	scheme := schemeParam(r)

	breakdown, err := h.engine.Breakdown(r.Context(), code, year, scheme)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if breakdown == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no index data for country"})
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

type CompareRequest struct {
	Countries []string `json:"countries"`
	Year      int      `json:"year"`
	Scheme    string   `json:"scheme,omitempty"`
}

func (h *IndexHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Countries) == 0 || req.Year == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "countries and year required"})
		return
	}

	if req.Scheme == "" {
		req.Scheme = index.EqualScheme
	}
	comparison, err := h.engine.Compare(r.Context(), req.Countries, req.Year, req.Scheme)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":      req.Year,
		"countries": comparison,
	})
}

func (h *IndexHandler) Criteria(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.AvailableCriteria())
}

func (h *IndexHandler) Schemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Schemes().Snapshot())
}

type RegisterSchemeRequest struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
}

func (h *IndexHandler) RegisterScheme(w http.ResponseWriter, r *http.Request) {
	var req RegisterSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if err := h.engine.Schemes().Register(req.Name, req.Weights); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if h.events != nil {
		if err := h.events.Publish(events.SubjectSchemeRegistered, events.SchemeRegisteredEvent{
			EventID:   uuid.New(),
			Scheme:    req.Name,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			h.logger.Warn("failed to publish scheme event", "scheme", req.Name, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered", "scheme": req.Name})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
