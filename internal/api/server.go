// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes flipbook viewers over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/ManuGH/flipbook/internal/api/middleware"
	"github.com/ManuGH/flipbook/internal/document"
	"github.com/ManuGH/flipbook/internal/health"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/viewer"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HeaderClientID scopes the analytics log of a new viewer.
const HeaderClientID = "X-Client-ID"

// Config holds the HTTP-facing settings.
type Config struct {
	MaxUploadMB    int
	ThumbnailWidth int
	Stack          middleware.StackConfig
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Viewers   *viewer.Manager
	Processor document.Processor
	Health    *health.Manager
	// Metrics serves /metrics. Nil uses the default Prometheus registry.
	Metrics http.Handler
}

// Server routes HTTP requests onto viewers.
type Server struct {
	cfg     Config
	viewers *viewer.Manager
	proc    document.Processor
	health  *health.Manager
	metrics http.Handler
	logger  zerolog.Logger
}

// New creates a Server.
func New(cfg Config, deps Deps) *Server {
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = document.DefaultThumbnailWidth
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}
	if deps.Health == nil {
		deps.Health = health.NewManager("")
	}
	return &Server{
		cfg:     cfg,
		viewers: deps.Viewers,
		proc:    deps.Processor,
		health:  deps.Health,
		metrics: deps.Metrics,
		logger:  xglog.WithComponent("api"),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(s.cfg.Stack)

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/viewers", s.handleCreateViewer)
		r.Get("/viewers", s.handleListViewers)

		r.Route("/viewers/{viewerID}", func(r chi.Router) {
			r.Use(s.withViewer)

			r.Get("/", s.handleGetViewer)
			r.Delete("/", s.handleDeleteViewer)
			r.Post("/document", s.handleUploadDocument)

			r.Get("/window", s.handleWindow)
			r.Get("/pages/{number}", s.handleGetPage)
			r.Get("/pages/{number}/thumbnail", s.handleThumbnail)

			r.Post("/navigation/next", s.handleNext)
			r.Post("/navigation/prev", s.handlePrev)
			r.Post("/navigation/goto", s.handleGoTo)
			r.Post("/navigation/key", s.handleKey)
			r.Put("/flipping", s.handleFlipping)
			r.Post("/spread/toggle", s.handleToggleSpread)
			r.Put("/spread", s.handleSetSpread)
			r.Post("/zoom", s.handleZoom)
			r.Post("/autoflip", s.handleAutoFlip)
			r.Put("/viewport", s.handleViewport)

			r.Get("/url", s.handleGetURL)
			r.Put("/url", s.handleApplyURL)
			r.Get("/share", s.handleShare)
			r.Post("/share/copy", s.handleCopyShare)

			r.Get("/analytics", s.handleAnalytics)
			r.Get("/analytics/export", s.handleExportAnalytics)
			r.Delete("/analytics", s.handleClearAnalytics)

			r.Route("/hotspots", func(r chi.Router) {
				r.Get("/", s.handleListHotspots)
				r.Post("/", s.handleAddHotspot)
				r.Get("/stats", s.handleHotspotStats)
				r.Get("/events", s.handleHotspotEvents)
				r.Get("/export", s.handleExportHotspots)
				r.Put("/import", s.handleImportHotspots)
				r.Get("/editor", s.handleGetEditor)
				r.Put("/editor", s.handleSetEditor)
				r.Get("/{hotspotID}", s.handleGetHotspot)
				r.Patch("/{hotspotID}", s.handleUpdateHotspot)
				r.Delete("/{hotspotID}", s.handleDeleteHotspot)
				r.Post("/{hotspotID}/click", s.handleClickHotspot)
			})
		})
	})
	return r
}

type viewerKey struct{}

// withViewer resolves {viewerID} and tags the request context with it.
func (s *Server) withViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := s.viewers.Get(chi.URLParam(r, "viewerID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := xglog.ContextWithViewerID(r.Context(), v.ID())
		if sid := v.Analytics().CurrentSessionID(); sid != "" {
			ctx = xglog.ContextWithSessionID(ctx, sid)
		}
		ctx = context.WithValue(ctx, viewerKey{}, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewerFrom(r *http.Request) *viewer.Viewer {
	v, _ := r.Context().Value(viewerKey{}).(*viewer.Viewer)
	return v
}
