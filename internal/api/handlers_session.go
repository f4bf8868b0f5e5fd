// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/darshana-ai/narad/internal/session"
)

type addMessageRequest struct {
	Role     string         `json:"role"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// AddMessage appends a message to a session, creating the session when it
// does not exist.
func (h *Handler) AddMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req addMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON", err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "missing_content", "content is required", nil)
		return
	}

	role := session.Role(req.Role)
	if role != session.RoleUser && role != session.RoleAI {
		respondError(w, http.StatusBadRequest, "invalid_role", `role must be "user" or "ai"`, nil)
		return
	}

	h.sessions.AddMessage(sessionID, role, req.Content, req.Metadata)
	respondJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

// History returns the retained message window, most recent last. The
// optional limit query parameter trims to the most recent N messages.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}

	history := h.sessions.GetHistory(sessionID, limit)
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   history,
		"count":      len(history),
	})
}

// GetContext returns the session's derived context. Unknown or expired
// sessions read as empty, not as errors.
func (h *Handler) GetContext(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sctx, ok := h.sessions.GetContext(sessionID)
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"context":    sctx,
		"exists":     ok,
	})
}

// UpdateContext applies a partial context update to a live session.
func (h *Handler) UpdateContext(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var upd session.ContextUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON", err)
		return
	}

	if !h.sessions.UpdateContext(sessionID, upd) {
		respondError(w, http.StatusNotFound, "session_not_found", "session does not exist or has expired", nil)
		return
	}

	sctx, _ := h.sessions.GetContext(sessionID)
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"context":    sctx,
	})
}

// SessionStats returns per-session statistics.
func (h *Handler) SessionStats(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	stats, ok := h.sessions.SessionStats(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "session does not exist or has expired", nil)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ExportSession returns the full serializable session snapshot.
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	export, ok := h.sessions.ExportSession(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "session does not exist or has expired", nil)
		return
	}
	respondJSON(w, http.StatusOK, export)
}

// DeleteSession removes a session immediately.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if !h.sessions.Clear(sessionID) {
		respondError(w, http.StatusNotFound, "session_not_found", "session does not exist", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"session_id": sessionID, "status": "deleted"})
}
