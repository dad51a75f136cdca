package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meridianmaps/atlas/internal/events"
	"github.com/meridianmaps/atlas/internal/index"
	"github.com/meridianmaps/atlas/internal/store"
)

type AdminHandler struct {
	engine *index.Engine
	store  store.Store
	events events.Publisher
	logger *slog.Logger
}

func NewAdminHandler(e *index.Engine, s store.Store, p events.Publisher, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{engine: e, store: s, events: p, logger: logger}
}

func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearCache()
	if h.events != nil {
		if err := h.events.Publish(events.SubjectIndexCacheCleared, events.CacheClearedEvent{
			EventID:   uuid.New(),
			Timestamp: time.Now().UTC(),
		}); err != nil {
			h.logger.Warn("failed to publish cache-cleared event", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"criteria": len(h.engine.AvailableCriteria()),
		"schemes":  len(h.engine.Schemes().Snapshot()),
	}
	if h.store != nil {
		snapshots, err := h.store.ListIndexSnapshots(r.Context(), 20)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		stats["recent_snapshots"] = snapshots
	}
	writeJSON(w, http.StatusOK, stats)
}
