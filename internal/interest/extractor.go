// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package interest maps free conversational text to a weighted interest
// vector consumed by the recommendation engine. Extraction is a pure
// function over fixed keyword tables; matching is substring containment on
// the lower-cased text, so partial-word hits are possible and accepted.
package interest

import "strings"

// Vector is a weighted interest mapping. Keys are theme names,
// "prefers_<type>" content-type preferences, and the single
// "difficulty_preference" scalar. Weights are non-negative and not
// normalized; repeated keyword hits accumulate.
type Vector map[string]float64

// DifficultyPreference returns the difficulty scalar, defaulting to medium.
func (v Vector) DifficultyPreference() float64 {
	if d, ok := v[KeyDifficultyPreference]; ok {
		return d
	}
	return difficultyMedium
}

// KeyDifficultyPreference is the vector key holding the difficulty scalar.
const KeyDifficultyPreference = "difficulty_preference"

// TypePreferenceKey returns the vector key expressing a preference for the
// given content type, e.g. "prefers_story".
func TypePreferenceKey(contentType string) string {
	return "prefers_" + contentType
}

const (
	themeIncrement = 0.5
	typeIncrement  = 0.3

	difficultyEasy   = 0.3
	difficultyMedium = 0.6
	difficultyHard   = 0.9
)

// themeKeywords maps themes to their detection vocabulary. A table rather
// than branching so the vocabulary can grow without touching control flow.
var themeKeywords = map[string][]string{
	"mythology":    {"myth", "legend", "god", "goddess", "divine", "epic"},
	"history":      {"history", "historical", "ancient", "past", "built", "emperor"},
	"architecture": {"architecture", "design", "building", "construction", "style"},
	"mystery":      {"mystery", "secret", "hidden", "ghost", "haunted", "paranormal"},
	"culture":      {"culture", "tradition", "custom", "festival", "ritual"},
	"adventure":    {"adventure", "explore", "journey", "quest", "discovery"},
	"art":          {"art", "sculpture", "painting", "craft", "artistic"},
	"religion":     {"religious", "spiritual", "temple", "worship", "sacred"},
}

// typeKeywords maps content types to vocabulary signalling a preference
// for that type.
var typeKeywords = map[string][]string{
	"story":         {"story", "tell", "narrative", "tale"},
	"experience":    {"experience", "virtual", "immersive", "see", "tour"},
	"treasure_hunt": {"game", "puzzle", "challenge", "treasure", "hunt", "quiz"},
	"monument":      {"monument", "place", "visit", "location", "site"},
}

// Easy words are checked before hard words; the first class that matches
// wins, otherwise the preference defaults to medium.
var (
	easyWords = []string{"easy", "simple", "basic"}
	hardWords = []string{"challenging", "complex", "advanced"}
)

// Extract computes the interest vector for a message.
func Extract(text string) Vector {
	v := make(Vector)
	lower := strings.ToLower(text)

	for theme, keywords := range themeKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				v[theme] += themeIncrement
			}
		}
	}

	for contentType, keywords := range typeKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				v[TypePreferenceKey(contentType)] += typeIncrement
			}
		}
	}

	v[KeyDifficultyPreference] = extractDifficulty(lower)

	return v
}

func extractDifficulty(lower string) float64 {
	for _, w := range easyWords {
		if strings.Contains(lower, w) {
			return difficultyEasy
		}
	}
	for _, w := range hardWords {
		if strings.Contains(lower, w) {
			return difficultyHard
		}
	}
	return difficultyMedium
}
