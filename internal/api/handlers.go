// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/darshana-ai/narad/internal/catalog"
	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/generate"
	"github.com/darshana-ai/narad/internal/logging"
	"github.com/darshana-ai/narad/internal/profile"
	"github.com/darshana-ai/narad/internal/recommend"
	"github.com/darshana-ai/narad/internal/session"
)

// Handler bundles the stores and engines behind the HTTP endpoints.
type Handler struct {
	sessions  *session.Store
	profiles  *profile.Store
	engine    *recommend.Engine
	generator *generate.Client
	catalog   *catalog.Catalog

	defaultLimit int
	maxLimit     int

	logger zerolog.Logger
}

// NewHandler builds the handler set.
func NewHandler(
	sessions *session.Store,
	profiles *profile.Store,
	engine *recommend.Engine,
	generator *generate.Client,
	cat *catalog.Catalog,
	cfg config.RecommendConfig,
) *Handler {
	return &Handler{
		sessions:     sessions,
		profiles:     profiles,
		engine:       engine,
		generator:    generator,
		catalog:      cat,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		logger:       logging.With().Str("component", "api").Logger(),
	}
}

type chatRequest struct {
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

type chatResponse struct {
	SessionID       string                     `json:"session_id"`
	Reply           string                     `json:"reply"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Context         session.Context            `json:"context"`
}

// Chat is the main conversational endpoint: it appends the user message,
// produces a reply and attaches fresh recommendations. A missing
// session_id starts a new session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "missing_message", "message is required", nil)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	h.sessions.Create(sessionID, req.UserID)
	h.sessions.AddMessage(sessionID, session.RoleUser, req.Message, req.Metadata)

	if req.UserID != "" {
		if huntID, ok := req.Metadata["completed_hunt"].(string); ok && huntID != "" {
			h.profiles.CompleteHunt(req.UserID, huntID)
		}
	}

	// Copy the context under the store lock, then call out to the
	// provider with no locks held.
	sctx, _ := h.sessions.GetContext(sessionID)
	reply := h.generator.Reply(r.Context(), req.Message, sctx)
	h.sessions.AddMessage(sessionID, session.RoleAI, reply, nil)

	recs := h.engine.Recommend(r.Context(), req.Message, sctx, req.UserID, h.defaultLimit)

	// The reply and the user message may have shifted the context.
	sctx, _ = h.sessions.GetContext(sessionID)

	h.logger.Debug().
		Str("session_id", sessionID).
		Int("recommendations", len(recs)).
		Msg("chat turn completed")

	respondJSON(w, http.StatusOK, chatResponse{
		SessionID:       sessionID,
		Reply:           reply,
		Recommendations: recs,
		Context:         sctx,
	})
}

type recommendRequest struct {
	Message   string          `json:"message"`
	SessionID string          `json:"session_id"`
	Context   session.Context `json:"context"`
	UserID    string          `json:"user_id"`
	Limit     *int            `json:"limit"`
}

// Recommendations serves on-demand recommendations. Context may be given
// inline or pulled from an existing session via session_id.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "missing_message", "message is required", nil)
		return
	}

	limit := h.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < 0 {
		limit = 0
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	sctx := req.Context
	if req.SessionID != "" {
		if stored, ok := h.sessions.GetContext(req.SessionID); ok {
			sctx = stored
		}
	}

	recs := h.engine.Recommend(r.Context(), req.Message, sctx, req.UserID, limit)
	respondJSON(w, http.StatusOK, map[string]any{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// Stats reports store and engine counters plus catalog shape.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"sessions": h.sessions.Stats(),
		"engine":   h.engine.Stats(),
		"catalog": map[string]any{
			"items":    h.catalog.Len(),
			"by_type":  h.catalog.CountByType(),
			"trending": len(h.catalog.Trending()),
		},
	})
}

// Health reports overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"active_sessions": h.sessions.Len(),
		"catalog_items":   h.catalog.Len(),
	})
}

// HealthLive is the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe. The service is ready once the
// catalog is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.catalog.Len() == 0 {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "catalog not loaded", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
