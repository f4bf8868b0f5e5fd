// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package api is the HTTP front door: chat, session access, on-demand
// recommendations, stats and health, all served through a chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/metrics"
)

// NewRouter wires middleware and routes around the handler set.
func NewRouter(h *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints get their own permissive limit so monitoring
	// probes never trip the API limit.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(prometheusMetrics)

		r.Post("/chat", h.Chat)
		r.Post("/recommendations", h.Recommendations)
		r.Get("/stats", h.Stats)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/messages", h.AddMessage)
			r.Get("/history", h.History)
			r.Get("/context", h.GetContext)
			r.Patch("/context", h.UpdateContext)
			r.Get("/stats", h.SessionStats)
			r.Get("/export", h.ExportSession)
			r.Delete("/", h.DeleteSession)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// prometheusMetrics records request counts and latency per route pattern.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		metrics.RecordAPIRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}
