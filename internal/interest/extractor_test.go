// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package interest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEasyMythologyStory(t *testing.T) {
	v := Extract("I want an easy mythology story")

	assert.GreaterOrEqual(t, v["mythology"], 0.5)
	assert.GreaterOrEqual(t, v[TypePreferenceKey("story")], 0.3)
	assert.InDelta(t, 0.3, v[KeyDifficultyPreference], 1e-9)
}

func TestExtractAccumulatesRepeatedThemes(t *testing.T) {
	// "myth", "legend", and "god" all hit the mythology row.
	v := Extract("a myth, a legend, and a god")
	assert.InDelta(t, 1.5, v["mythology"], 1e-9)
}

func TestExtractDifficultyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"easy words", "something simple please", 0.3},
		{"hard words", "give me a challenging quest", 0.9},
		{"neutral", "tell me about temples", 0.6},
		{"easy wins over hard", "simple but challenging", 0.3},
		{"empty text", "", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Extract(tt.text)
			assert.InDelta(t, tt.want, v[KeyDifficultyPreference], 1e-9)
		})
	}
}

func TestExtractTypePreferences(t *testing.T) {
	v := Extract("a virtual tour with a treasure hunt puzzle")

	// "virtual" and "tour" both hit the experience row.
	assert.InDelta(t, 0.6, v[TypePreferenceKey("experience")], 1e-9)
	// "treasure", "hunt", and "puzzle" hit the treasure_hunt row.
	assert.InDelta(t, 0.9, v[TypePreferenceKey("treasure_hunt")], 1e-9)
	assert.Zero(t, v[TypePreferenceKey("story")])
}

func TestExtractCaseInsensitive(t *testing.T) {
	v := Extract("TELL me a STORY about ARCHITECTURE")
	assert.GreaterOrEqual(t, v["architecture"], 0.5)
	assert.GreaterOrEqual(t, v[TypePreferenceKey("story")], 0.3)
}

func TestExtractSubstringContainment(t *testing.T) {
	// "art" matches inside "artisan"; the substring policy is intentional.
	v := Extract("artisan market")
	assert.GreaterOrEqual(t, v["art"], 0.5)
}

func TestExtractDeterministic(t *testing.T) {
	const text = "an ancient temple with hidden art and festivals"
	a := Extract(text)
	b := Extract(text)
	require.Equal(t, a, b)
}

func TestDifficultyPreferenceDefault(t *testing.T) {
	assert.InDelta(t, 0.6, Vector{}.DifficultyPreference(), 1e-9)
	assert.InDelta(t, 0.9, Vector{KeyDifficultyPreference: 0.9}.DifficultyPreference(), 1e-9)
}
