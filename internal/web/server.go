// SPDX-License-Identifier: MIT

// Package web serves the form UI and the read-only JSON API over the two
// recorder documents. Handlers hold no state: every request re-reads from
// the store, so external edits show up on the next page load.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aircheck-dev/aircheck/internal/health"
	"github.com/aircheck-dev/aircheck/internal/log"
	"github.com/aircheck-dev/aircheck/internal/store"
	"github.com/aircheck-dev/aircheck/internal/web/middleware"
)

// Config holds the web server's tunables.
type Config struct {
	// RateLimitEnabled throttles mutating routes per client IP.
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Server wires the document store into HTTP handlers.
type Server struct {
	cfg    Config
	store  *store.Store
	health *health.Manager
	logger zerolog.Logger
}

// New creates the web server. health may be nil; the probe endpoints are
// then not registered.
func New(cfg Config, st *store.Store, healthMgr *health.Manager) *Server {
	return &Server{
		cfg:    cfg,
		store:  st,
		health: healthMgr,
		logger: log.WithComponent("web"),
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Recoverer (outermost safety net), then correlation, headers,
	// metrics and access logging.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(""))
	r.Use(middleware.Metrics())
	r.Use(log.Middleware())

	r.Get("/", s.handleRoot)

	r.Get("/shows", s.handleShowsIndex)
	r.Get("/shows/new", s.handleShowNew)
	r.Get("/shows/{key}/edit", s.handleShowEdit)

	r.Get("/stations", s.handleStationsIndex)
	r.Get("/stations/new", s.handleStationNew)
	r.Get("/stations/{id}/edit", s.handleStationEdit)

	r.Get("/api/shows", s.handleAPIShows)
	r.Get("/api/stations", s.handleAPIStations)

	if s.health != nil {
		r.Get("/healthz", s.health.ServeHealth)
		r.Get("/readyz", s.health.ServeReady)
	}

	// Mutating routes share one rate limit bucket; reads stay open.
	r.Group(func(r chi.Router) {
		if s.cfg.RateLimitEnabled {
			r.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestLimit: s.cfg.RateLimitRequests,
				WindowSize:   s.cfg.RateLimitWindow,
			}))
		}

		r.Post("/shows/new", s.handleShowCreate)
		r.Post("/shows/{key}/edit", s.handleShowUpdate)
		r.Post("/shows/{key}/delete", s.handleShowDelete)

		r.Post("/stations/new", s.handleStationCreate)
		r.Post("/stations/{id}/edit", s.handleStationUpdate)
		r.Post("/stations/{id}/delete", s.handleStationDelete)
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/shows", http.StatusFound)
}
