package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voe-labs/ideahub-backend/internal/config"
	mw "github.com/voe-labs/ideahub-backend/internal/transport/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Logger    *slog.Logger
	Ideas     ideaService
	Dashboard dashboardService
	Directory directoryService
	Health    *HealthHandler
	Auth      mw.Middleware
	CORS      config.CORSConfig
	Limits    config.LimitsConfig
	Limiter   *mw.RateLimiter
}

// NewRouter assembles the HTTP routing tree. Health probes are open;
// everything under /api requires an authenticated actor.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery(deps.Logger))
	r.Use(mw.Logger(deps.Logger))
	r.Use(mw.CORS(deps.CORS))

	r.Get("/health", deps.Health.Health)
	r.Get("/live", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)

	ideas := NewIdeaHandler(deps.Logger, deps.Ideas)
	dashboard := NewDashboardHandler(deps.Logger, deps.Dashboard)
	directory := NewDirectoryHandler(deps.Logger, deps.Directory)

	r.Route("/api", func(api chi.Router) {
		api.Use(deps.Auth)
		// After auth so buckets key on the actor, not the shared NAT address.
		if deps.Limits.Enabled && deps.Limiter != nil {
			api.Use(deps.Limiter.Limit(deps.Limits.RequestsPerMin))
		}

		api.Route("/ideas", func(ir chi.Router) {
			ir.Post("/", ideas.Create)
			ir.Get("/", ideas.List)
			ir.Get("/{id}", ideas.Get)
			ir.Patch("/{id}", ideas.Update)
			ir.Post("/{id}/vote", ideas.Vote)
			ir.Post("/{id}/transition", ideas.Transition)
			ir.Get("/{id}/history", ideas.History)
		})

		api.Get("/categories", directory.Categories)
		api.Get("/departments", directory.Departments)

		api.Route("/dashboard", func(dr chi.Router) {
			dr.Get("/overview", dashboard.Overview)
			dr.Get("/departments", dashboard.Departments)
		})
	})

	return r
}
