package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/internal/prospect"
	"github.com/leadflowhq/leadflow/pkg/httpserver"
)

// RouterOptions carries the dependencies the HTTP surface exposes.
type RouterOptions struct {
	Leads    *lead.Service
	Pipeline *prospect.Pipeline

	// HealthChecks are probed by GET /health.
	HealthChecks map[string]httpserver.HealthCheck
}

// Router assembles the service's HTTP surface.
func Router(opts RouterOptions) chi.Router {
	h := &handlers{
		leads:    opts.Leads,
		pipeline: opts.Pipeline,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthHandler(opts.HealthChecks))

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", h.createLead)
		r.Get("/", h.listLeads)

		r.Route("/{leadID}", func(r chi.Router) {
			r.Get("/", h.getLead)
			r.Get("/history", h.getHistory)
			r.Post("/events", h.applyEvent)
		})
	})

	return r
}
