// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package session implements the in-memory conversational session store.
// Each session keeps a bounded FIFO message history, a derived context
// extracted from user messages, and per-session statistics. Sessions
// expire after a sliding inactivity window; expiry is detected lazily on
// access and proactively by a periodic sweep.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/logging"
	"github.com/darshana-ai/narad/internal/metrics"
)

// Store is the session store. All state lives behind a single mutex;
// operations are short map-and-slice manipulations, so coarse locking is
// cheaper than per-session locks at the concurrency levels a single chat
// backend sees.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session

	maxHistory int
	timeout    time.Duration

	totalSessions int64
	totalMessages int64

	logger zerolog.Logger
	now    func() time.Time
}

// NewStore builds a store from the session configuration.
func NewStore(cfg config.SessionConfig) *Store {
	return &Store{
		sessions:   make(map[string]*session),
		maxHistory: cfg.MaxHistory,
		timeout:    cfg.Timeout,
		logger:     logging.With().Str("component", "session").Logger(),
		now:        time.Now,
	}
}

// Create ensures a session exists, binding it to userID when one is
// given. Creation is idempotent: calling Create on a live session is a
// no-op apart from refreshing its activity timestamp. Reports whether a
// new session was created.
func (s *Store) Create(sessionID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.live(sessionID); sess != nil {
		sess.lastActivity = s.now()
		if sess.userID == "" && userID != "" {
			sess.userID = userID
		}
		return false
	}
	s.create(sessionID, userID)
	return true
}

// AddMessage appends a message to the session, creating the session if it
// does not exist or has expired. User messages are scanned against the
// keyword vocabularies to update the derived context. Metadata is
// optional; recognized keys update the context and statistics, anything
// malformed or unknown is ignored.
func (s *Store) AddMessage(sessionID string, role Role, content string, metadata map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		sess = s.create(sessionID, "")
	}

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
		Metadata:  metadata,
	}
	if sess.history.push(msg) {
		metrics.HistoryEvictions.Inc()
	}
	sess.lastActivity = msg.Timestamp
	sess.stats.messageCount++
	s.totalMessages++
	metrics.MessagesAppended.WithLabelValues(string(role)).Inc()

	if role == RoleUser {
		sess.context.scanText(content)
	}
	applyMetadata(sess, metadata)
}

// applyMetadata folds recognized metadata keys into the session. Values
// of the wrong type are skipped rather than rejected: metadata comes from
// upstream services and must never fail an append.
func applyMetadata(sess *session, metadata map[string]any) {
	if v, ok := metadata["monument_id"].(string); ok && v != "" {
		sess.context.monuments[v] = struct{}{}
		sess.context.currentMonument = v
	}
	if v, ok := metadata["location"].(string); ok && v != "" {
		sess.context.currentLocation = v
	}
	if v, ok := metadata["intent"].(string); ok && v != "" {
		sess.stats.intents[v]++
	}
	switch v := metadata["user_rating"].(type) {
	case float64:
		sess.stats.ratings = append(sess.stats.ratings, v)
	case int:
		sess.stats.ratings = append(sess.stats.ratings, float64(v))
	}
}

// GetHistory returns up to limit messages in chronological order, most
// recent last. limit <= 0 returns the full retained window. A missing or
// expired session yields an empty slice.
func (s *Store) GetHistory(sessionID string, limit int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return []Message{}
	}
	return sess.history.list(limit)
}

// GetContext returns a snapshot of the session's derived context.
func (s *Store) GetContext(sessionID string) (Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return Context{}, false
	}
	return sess.context.snapshot(), true
}

// UpdateContext applies a partial context update to a live session.
// Scalars replace, sets union, preferences merge by key. Reports false
// when the session is absent or expired; updates never resurrect a
// session.
func (s *Store) UpdateContext(sessionID string, upd ContextUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return false
	}
	ctx := sess.context
	for _, t := range upd.Topics {
		ctx.topics[t] = struct{}{}
	}
	for _, m := range upd.MonumentsDiscussed {
		ctx.monuments[m] = struct{}{}
	}
	for _, st := range upd.StoryTypesRequested {
		ctx.storyTypes[st] = struct{}{}
	}
	if upd.CurrentMonument != nil {
		ctx.currentMonument = *upd.CurrentMonument
	}
	if upd.CurrentLocation != nil {
		ctx.currentLocation = *upd.CurrentLocation
	}
	for k, v := range upd.UserPreferences {
		ctx.userPreferences[k] = v
	}
	sess.lastActivity = s.now()
	return true
}

// SessionStats returns per-session statistics.
func (s *Store) SessionStats(sessionID string) (Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return Stats{}, false
	}
	return sess.statsSnapshot(), true
}

// ExportSession returns a full serializable snapshot of a session.
func (s *Store) ExportSession(sessionID string) (Export, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return Export{}, false
	}
	return Export{
		SessionID:    sess.id,
		UserID:       sess.userID,
		CreatedAt:    sess.createdAt,
		LastActivity: sess.lastActivity,
		History:      sess.history.list(0),
		Context:      sess.context.snapshot(),
		Stats:        sess.statsSnapshot(),
	}, true
}

// UserID returns the user a session is bound to, if any.
func (s *Store) UserID(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return "", false
	}
	return sess.userID, true
}

// Clear removes a session immediately. Reports whether it existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	metrics.SessionsExpired.WithLabelValues("clear").Inc()
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return true
}

// ClearAll removes every session and returns how many were dropped.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions)
	s.sessions = make(map[string]*session)
	metrics.SessionsActive.Set(0)
	s.logger.Info().Int("cleared", n).Msg("all sessions cleared")
	return n
}

// SweepExpired removes every expired session and returns the count.
// Called periodically by the sweeper service so that idle sessions do
// not accumulate between accesses.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActivity) > s.timeout {
			delete(s.sessions, id)
			removed++
			metrics.SessionsExpired.WithLabelValues("sweep").Inc()
		}
	}
	if removed > 0 {
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		s.logger.Debug().Int("removed", removed).Msg("expired sessions swept")
	}
	return removed
}

// Stats returns store-wide counters.
func (s *Store) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	inMemory := 0
	for _, sess := range s.sessions {
		inMemory += sess.history.len()
	}
	st := StoreStats{
		TotalSessions:    s.totalSessions,
		ActiveSessions:   len(s.sessions),
		TotalMessages:    s.totalMessages,
		MessagesInMemory: inMemory,
	}
	if st.ActiveSessions > 0 {
		st.AvgPerSession = float64(st.MessagesInMemory) / float64(st.ActiveSessions)
	}
	return st
}

// Len returns the number of live sessions without evicting expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// live returns the session when present and unexpired, evicting it when
// the inactivity window has lapsed. Caller must hold s.mu.
func (s *Store) live(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if s.now().Sub(sess.lastActivity) > s.timeout {
		delete(s.sessions, sessionID)
		metrics.SessionsExpired.WithLabelValues("lazy").Inc()
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		s.logger.Debug().Str("session_id", sessionID).Msg("session expired")
		return nil
	}
	return sess
}

// create inserts a fresh session. Caller must hold s.mu.
func (s *Store) create(sessionID, userID string) *session {
	now := s.now()
	sess := &session{
		id:           sessionID,
		userID:       userID,
		createdAt:    now,
		lastActivity: now,
		history:      newRing(s.maxHistory),
		context:      newConversationContext(),
	}
	sess.stats.intents = make(map[string]int)
	s.sessions[sessionID] = sess
	s.totalSessions++
	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	s.logger.Debug().Str("session_id", sessionID).Msg("session created")
	return sess
}
