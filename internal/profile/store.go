// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package profile keeps long-lived per-user aggregates: decayed interest
// weights, visited monuments, completed hunts, preferred content types
// and a bounded interaction history. Profiles are created lazily and
// live for the process lifetime.
package profile

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/darshana-ai/narad/internal/interest"
	"github.com/darshana-ai/narad/internal/logging"
)

// maxInteractions bounds the per-user interaction history. Oldest
// entries are dropped first.
const maxInteractions = 100

// Interest blending constants. Stored weights decay toward zero unless
// reinforced, so recent signals dominate over stale ones without ever
// letting a single message overwrite the accumulated picture.
const (
	decayFactor = 0.9
	blendFactor = 0.1
)

// Interaction is one recorded recommendation call.
type Interaction struct {
	Timestamp time.Time       `json:"timestamp"`
	Interests interest.Vector `json:"interests"`
	Monument  string          `json:"monument,omitempty"`
}

// SeenRef identifies a content item surfaced to the user.
type SeenRef struct {
	ContentID   string
	ContentType string
}

// Profile is a transport-safe snapshot of a user profile. Mutating a
// snapshot never affects the store.
type Profile struct {
	UserID                string             `json:"user_id"`
	Interests             interest.Vector    `json:"interests"`
	VisitedMonuments      map[string]bool    `json:"visited_monuments"`
	CompletedHunts        map[string]bool    `json:"completed_hunts"`
	PreferredContentTypes map[string]float64 `json:"preferred_content_types"`
	CulturalPreferences   map[string]float64 `json:"cultural_preferences"`
	SeenContent           map[string]bool    `json:"seen_content"`
	Interactions          []Interaction      `json:"interaction_history"`
}

// HasPreferences reports whether collaborative filtering has anything to
// work with.
func (p Profile) HasPreferences() bool {
	return len(p.PreferredContentTypes) > 0
}

// record is the store-owned mutable profile.
type record struct {
	interests      interest.Vector
	visited        map[string]struct{}
	completedHunts map[string]struct{}
	preferredTypes map[string]float64
	culturalPrefs  map[string]float64
	seen           map[string]struct{}
	interactions   []Interaction
}

func newRecord() *record {
	return &record{
		interests:      make(interest.Vector),
		visited:        make(map[string]struct{}),
		completedHunts: make(map[string]struct{}),
		preferredTypes: make(map[string]float64),
		culturalPrefs:  make(map[string]float64),
		seen:           make(map[string]struct{}),
	}
}

// Store is the user profile store. A single mutex guards the map; every
// critical section is a short map manipulation.
type Store struct {
	mu       sync.Mutex
	profiles map[string]*record

	logger zerolog.Logger
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*record),
		logger:   logging.With().Str("component", "profile").Logger(),
		now:      time.Now,
	}
}

// Snapshot returns a copy of the user's profile, creating it lazily when
// absent.
func (s *Store) Snapshot(userID string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.get(userID)
	return Profile{
		UserID:                userID,
		Interests:             copyVector(rec.interests),
		VisitedMonuments:      copySet(rec.visited),
		CompletedHunts:        copySet(rec.completedHunts),
		PreferredContentTypes: copyWeights(rec.preferredTypes),
		CulturalPreferences:   copyWeights(rec.culturalPrefs),
		SeenContent:           copySet(rec.seen),
		Interactions:          append([]Interaction(nil), rec.interactions...),
	}
}

// Update folds one recommendation call into the profile. Interest weights
// blend as stored*0.9 + new*0.1, the current monument joins the visited
// set, surfaced items are marked seen, and the interaction is appended to
// the bounded history. Content-type preference keys in the vector also
// feed the preferred-type weights, and theme keys feed the cultural
// preferences, so later collaborative passes have signal to work with.
func (s *Store) Update(userID string, interests interest.Vector, currentMonument string, surfaced []SeenRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.get(userID)

	for key, weight := range interests {
		rec.interests[key] = rec.interests[key]*decayFactor + weight*blendFactor

		switch {
		case key == interest.KeyDifficultyPreference:
		case strings.HasPrefix(key, "prefers_"):
			t := strings.TrimPrefix(key, "prefers_")
			rec.preferredTypes[t] = rec.preferredTypes[t]*decayFactor + weight*blendFactor
		default:
			rec.culturalPrefs[key] = rec.culturalPrefs[key]*decayFactor + weight*blendFactor
		}
	}

	if currentMonument != "" {
		rec.visited[currentMonument] = struct{}{}
	}
	for _, ref := range surfaced {
		rec.seen[ref.ContentID] = struct{}{}
	}

	rec.interactions = append(rec.interactions, Interaction{
		Timestamp: s.now(),
		Interests: copyVector(interests),
		Monument:  currentMonument,
	})
	if len(rec.interactions) > maxInteractions {
		rec.interactions = rec.interactions[len(rec.interactions)-maxInteractions:]
	}

	s.logger.Debug().Str("user_id", userID).Int("interests", len(interests)).Msg("profile updated")
}

// CompleteHunt records a finished treasure hunt. Completed hunts are
// treated as seen so they are not recommended again.
func (s *Store) CompleteHunt(userID, huntID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.get(userID)
	rec.completedHunts[huntID] = struct{}{}
	rec.seen[huntID] = struct{}{}
}

// Len returns the number of profiles in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// get fetches or lazily creates a record. Caller must hold s.mu.
func (s *Store) get(userID string) *record {
	rec, ok := s.profiles[userID]
	if !ok {
		rec = newRecord()
		s.profiles[userID] = rec
	}
	return rec
}

func copyVector(v interest.Vector) interest.Vector {
	out := make(interest.Vector, len(v))
	for k, w := range v {
		out[k] = w
	}
	return out
}

func copyWeights(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, w := range m {
		out[k] = w
	}
	return out
}

func copySet(set map[string]struct{}) map[string]bool {
	out := make(map[string]bool, len(set))
	for k := range set {
		out[k] = true
	}
	return out
}
