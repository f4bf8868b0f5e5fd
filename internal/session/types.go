// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package session

import (
	"sort"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is a single conversation turn. Messages are immutable once
// appended.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// conversationContext is the per-session derived context. Set-typed fields
// are kept as hash sets internally; Snapshot renders them as sorted slices
// at the boundary.
type conversationContext struct {
	topics          map[string]struct{}
	monuments       map[string]struct{}
	storyTypes      map[string]struct{}
	currentMonument string
	currentLocation string
	userPreferences map[string]any
}

func newConversationContext() *conversationContext {
	return &conversationContext{
		topics:          make(map[string]struct{}),
		monuments:       make(map[string]struct{}),
		storyTypes:      make(map[string]struct{}),
		userPreferences: make(map[string]any),
	}
}

// Context is the transport-safe snapshot of a session's derived context.
// Sets are rendered as sorted slices for deterministic serialization.
type Context struct {
	Topics              []string       `json:"topics"`
	MonumentsDiscussed  []string       `json:"monuments_discussed"`
	StoryTypesRequested []string       `json:"story_types_requested"`
	CurrentMonument     string         `json:"current_monument,omitempty"`
	CurrentLocation     string         `json:"current_location,omitempty"`
	UserPreferences     map[string]any `json:"user_preferences"`
}

// snapshot copies the context into its transport form.
func (c *conversationContext) snapshot() Context {
	prefs := make(map[string]any, len(c.userPreferences))
	for k, v := range c.userPreferences {
		prefs[k] = v
	}
	return Context{
		Topics:              sortedKeys(c.topics),
		MonumentsDiscussed:  sortedKeys(c.monuments),
		StoryTypesRequested: sortedKeys(c.storyTypes),
		CurrentMonument:     c.currentMonument,
		CurrentLocation:     c.currentLocation,
		UserPreferences:     prefs,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContextUpdate is a partial context update. Scalar fields replace when
// non-nil; slice fields union into the corresponding sets; preference
// entries merge by key.
type ContextUpdate struct {
	Topics              []string       `json:"topics,omitempty"`
	MonumentsDiscussed  []string       `json:"monuments_discussed,omitempty"`
	StoryTypesRequested []string       `json:"story_types_requested,omitempty"`
	CurrentMonument     *string        `json:"current_monument,omitempty"`
	CurrentLocation     *string        `json:"current_location,omitempty"`
	UserPreferences     map[string]any `json:"user_preferences,omitempty"`
}

// Stats are per-session statistics, derived from appended messages.
type Stats struct {
	MessageCount       int            `json:"message_count"`
	IntentDistribution map[string]int `json:"intent_distribution"`
	ResponseRatings    []float64      `json:"response_ratings"`
	TopicsCovered      int            `json:"topics_covered"`
	MonumentsDiscussed int            `json:"monuments_discussed"`
	DurationMinutes    float64        `json:"duration_minutes"`
}

// StoreStats are store-wide counters. AvgPerSession covers retained
// messages in live sessions, not lifetime totals.
type StoreStats struct {
	TotalSessions    int64   `json:"total_sessions_created"`
	ActiveSessions   int     `json:"active_sessions"`
	TotalMessages    int64   `json:"total_messages_processed"`
	MessagesInMemory int     `json:"messages_in_memory"`
	AvgPerSession    float64 `json:"average_messages_per_session"`
}

// Export is a serializable snapshot of an entire session, used for
// analysis and debugging endpoints.
type Export struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	History      []Message `json:"message_history"`
	Context      Context   `json:"context"`
	Stats        Stats     `json:"stats"`
}

// session is the store-owned record. Callers never hold references to it
// across calls; only opaque session IDs cross the boundary.
type session struct {
	id           string
	userID       string
	createdAt    time.Time
	lastActivity time.Time
	history      *ring
	context      *conversationContext
	stats        struct {
		messageCount int
		intents      map[string]int
		ratings      []float64
	}
}

func (s *session) statsSnapshot() Stats {
	intents := make(map[string]int, len(s.stats.intents))
	for k, v := range s.stats.intents {
		intents[k] = v
	}
	ratings := make([]float64, len(s.stats.ratings))
	copy(ratings, s.stats.ratings)

	return Stats{
		MessageCount:       s.stats.messageCount,
		IntentDistribution: intents,
		ResponseRatings:    ratings,
		TopicsCovered:      len(s.context.topics),
		MonumentsDiscussed: len(s.context.monuments),
		DurationMinutes:    s.lastActivity.Sub(s.createdAt).Minutes(),
	}
}
