// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package api serves the calculators, validators and diagnostics as a JSON
// HTTP API.
package api // import "github.com/netplus-lab/netplus/internal/api"

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/progress"
)

// Progress is the part of progress.Tracker the API needs.
type Progress interface {
	Summary(ctx context.Context) (progress.Summary, error)
	SaveDesign(ctx context.Context, name string, plan netcalc.Plan) (model.Design, error)
}

// Options configures a Server.
type Options struct {
	// Progress may be nil; progress routes then answer 503.
	Progress Progress
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int
	// Registry receives the HTTP metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server holds the handler dependencies.
type Server struct {
	progress Progress
	registry *prometheus.Registry
	metrics  *httpMetrics
	router   chi.Router
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	s := &Server{
		progress: opts.Progress,
		registry: reg,
		metrics:  newHTTPMetrics(reg),
	}
	s.router = s.routes(opts.RateLimit)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(rateLimit int) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if rateLimit > 0 {
			r.Use(RateLimit(RateLimitConfig{RequestLimit: rateLimit, WindowSize: time.Minute}))
		}
		r.Get("/subnet", s.handleSubnet)
		r.Get("/split", s.handleSplit)
		r.Post("/vlsm", s.handleVLSM)
		r.Post("/summarize", s.handleSummarize)
		r.Get("/validate/{kind}", s.handleValidate)
		r.Get("/validate", s.handleValidateKinds)
		r.Post("/troubleshoot/diagnose", s.handleDiagnose)
		r.Get("/troubleshoot/scenarios", s.handleScenarios)
		r.Get("/progress", s.handleProgress)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

// ListenAndServe serves s on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
