package api

import (
	"encoding/json"
	"net/http"

	"github.com/meridianmaps/atlas/internal/index"
	"github.com/meridianmaps/atlas/internal/recommend"
)

type QueryHandler struct {
	engine      *index.Engine
	recommender recommend.Client
}

func NewQueryHandler(e *index.Engine, c recommend.Client) *QueryHandler {
	return &QueryHandler{engine: e, recommender: c}
}

type QueryRequest struct {
	Query  string `json:"query"`
	Year   int    `json:"year"`
	Scheme string `json:"scheme,omitempty"`
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	if h.recommender == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "recommendation service not configured"})
		return
	}
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Query == "" || req.Year == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query and year required"})
		return
	}
	if req.Scheme == "" {
		req.Scheme = index.EqualScheme
	}

	results, err := h.engine.Composite(r.Context(), req.Year, req.Scheme)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	advice, err := h.recommender.Recommend(r.Context(), req.Query, recommend.BuildContext(results))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, advice)
}
