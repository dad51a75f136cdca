package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianmaps/atlas/internal/events"
	"github.com/meridianmaps/atlas/internal/geometry"
	"github.com/meridianmaps/atlas/internal/store"
)

type GeometryHandler struct {
	validator *geometry.Validator
	store     store.Store
	events    events.Publisher
	logger    *slog.Logger

	mu   sync.RWMutex
	last *geometry.BatchReport
}

func NewGeometryHandler(v *geometry.Validator, s store.Store, p events.Publisher, logger *slog.Logger) *GeometryHandler {
	return &GeometryHandler{validator: v, store: s, events: p, logger: logger}
}

func (h *GeometryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var fc geometry.FeatureCollection
	if err := json.NewDecoder(r.Body).Decode(&fc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid GeoJSON body"})
		return
	}
	if fc.Type != "FeatureCollection" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a FeatureCollection"})
		return
	}

	report := h.validator.ValidateCollection(&fc)

	h.mu.Lock()
	h.last = report
	h.mu.Unlock()

	if h.store != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := h.store.SaveValidationRun(r.Context(), &store.ValidationRun{
				TotalFeatures: report.TotalFeatures,
				ValidFeatures: report.ValidFeatures,
				ErrorCount:    report.SeverityCounts[geometry.IssueError],
				WarningCount:  report.SeverityCounts[geometry.IssueWarning],
				Report:        payload,
			}); err != nil {
				h.logger.Warn("failed to persist validation run", "features", report.TotalFeatures, "error", err)
			}
		}
	}
	if h.events != nil {
		if err := h.events.Publish(events.SubjectGeometryValidated, events.GeometryValidatedEvent{
			EventID:       uuid.New(),
			TotalFeatures: report.TotalFeatures,
			ValidFeatures: report.ValidFeatures,
			ErrorCount:    report.SeverityCounts[geometry.IssueError],
			Timestamp:     time.Now().UTC(),
		}); err != nil {
			h.logger.Warn("failed to publish validation event", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// latestReport returns the most recent batch report, falling back to the
// persisted run when the process has not validated anything yet.
func (h *GeometryHandler) latestReport(r *http.Request) *geometry.BatchReport {
	h.mu.RLock()
	last := h.last
	h.mu.RUnlock()
	if last != nil {
		return last
	}
	if h.store == nil {
		return nil
	}
	run, err := h.store.LatestValidationRun(r.Context())
	if err != nil || run == nil {
		return nil
	}
	var report geometry.BatchReport
	if err := json.Unmarshal(run.Report, &report); err != nil {
		return nil
	}
	return &report
}

func (h *GeometryHandler) Latest(w http.ResponseWriter, r *http.Request) {
	report := h.latestReport(r)
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no validation run yet"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *GeometryHandler) Country(w http.ResponseWriter, r *http.Request) {
	report := h.latestReport(r)
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no validation run yet"})
		return
	}
	code := chi.URLParam(r, "code")
	result := report.Country(code)
	if result == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "country not in latest run"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
