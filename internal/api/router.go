package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianmaps/atlas/internal/events"
	"github.com/meridianmaps/atlas/internal/geometry"
	"github.com/meridianmaps/atlas/internal/index"
	"github.com/meridianmaps/atlas/internal/recommend"
	"github.com/meridianmaps/atlas/internal/store"
)

func NewRouter(engine *index.Engine, validator *geometry.Validator, s store.Store, p events.Publisher, rec recommend.Client, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware)
	r.Use(RateLimitMiddleware(120))

	idx := NewIndexHandler(engine, s, p, logger)
	geo := NewGeometryHandler(validator, s, p, logger)
	query := NewQueryHandler(engine, rec)
	admin := NewAdminHandler(engine, s, p, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/index/{year}", idx.Composite)
		r.Get("/index/{year}/rankings", idx.Rankings)
		r.Get("/index/{year}/countries/{code}", idx.Breakdown)
		r.Post("/index/compare", idx.Compare)

		r.Get("/criteria", idx.Criteria)
		r.Get("/schemes", idx.Schemes)

		r.Post("/query", query.Query)

		r.Post("/geometry/validate", geo.Validate)
		r.Get("/geometry/validation", geo.Latest)
		r.Get("/geometry/validation/{code}", geo.Country)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/schemes", idx.RegisterScheme)
			r.Post("/admin/cache/clear", admin.ClearCache)
			r.Get("/admin/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
