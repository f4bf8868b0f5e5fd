// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package profile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshana-ai/narad/internal/interest"
)

func TestSnapshotLazyCreation(t *testing.T) {
	st := NewStore()

	p := st.Snapshot("u1")
	assert.Equal(t, "u1", p.UserID)
	assert.Empty(t, p.Interests)
	assert.False(t, p.HasPreferences())
	assert.Equal(t, 1, st.Len())
}

func TestUpdateBlendsInterests(t *testing.T) {
	st := NewStore()

	st.Update("u1", interest.Vector{"mythology": 0.5}, "", nil)
	st.Update("u1", interest.Vector{"mythology": 1.0}, "", nil)

	got := st.Snapshot("u1").Interests["mythology"]
	// First call: 0*0.9 + 0.5*0.1 = 0.05. Second: 0.05*0.9 + 1.0*0.1 = 0.145.
	assert.InDelta(t, 0.145, got, 1e-9)
}

func TestBlendedWeightStrictlyBetweenInputs(t *testing.T) {
	st := NewStore()

	st.Update("u1", interest.Vector{"history": 0.5}, "", nil)
	st.Update("u1", interest.Vector{"history": 1.5}, "", nil)

	got := st.Snapshot("u1").Interests["history"]
	assert.Greater(t, got, 0.5*0.1*0.9)
	assert.Less(t, got, 1.5)
	assert.NotEqual(t, 0.5, got)
	assert.NotEqual(t, 1.5, got)
}

func TestUpdateRoutesKeysByKind(t *testing.T) {
	st := NewStore()

	st.Update("u1", interest.Vector{
		"mythology":                      0.5,
		"prefers_story":                  0.3,
		interest.KeyDifficultyPreference: 0.3,
	}, "", nil)

	p := st.Snapshot("u1")
	assert.InDelta(t, 0.03, p.PreferredContentTypes["story"], 1e-9)
	assert.InDelta(t, 0.05, p.CulturalPreferences["mythology"], 1e-9)
	assert.NotContains(t, p.CulturalPreferences, interest.KeyDifficultyPreference)
	assert.NotContains(t, p.PreferredContentTypes, interest.KeyDifficultyPreference)
	assert.True(t, p.HasPreferences())
}

func TestUpdateRecordsMonumentAndSeen(t *testing.T) {
	st := NewStore()

	st.Update("u1", interest.Vector{"history": 0.5}, "hampi", []SeenRef{
		{ContentID: "story_2", ContentType: "story"},
		{ContentID: "exp_2", ContentType: "experience"},
	})

	p := st.Snapshot("u1")
	assert.True(t, p.VisitedMonuments["hampi"])
	assert.True(t, p.SeenContent["story_2"])
	assert.True(t, p.SeenContent["exp_2"])
	require.Len(t, p.Interactions, 1)
	assert.Equal(t, "hampi", p.Interactions[0].Monument)
}

func TestInteractionHistoryBounded(t *testing.T) {
	st := NewStore()

	for i := 0; i < maxInteractions+25; i++ {
		st.Update("u1", interest.Vector{"history": 0.1}, fmt.Sprintf("m%d", i), nil)
	}

	p := st.Snapshot("u1")
	require.Len(t, p.Interactions, maxInteractions)
	// Oldest entries dropped first.
	assert.Equal(t, "m25", p.Interactions[0].Monument)
	assert.Equal(t, fmt.Sprintf("m%d", maxInteractions+24), p.Interactions[len(p.Interactions)-1].Monument)
}

func TestCompleteHuntMarksSeen(t *testing.T) {
	st := NewStore()

	st.CompleteHunt("u1", "hunt_1")

	p := st.Snapshot("u1")
	assert.True(t, p.CompletedHunts["hunt_1"])
	assert.True(t, p.SeenContent["hunt_1"])
}

func TestSnapshotIsolation(t *testing.T) {
	st := NewStore()

	st.Update("u1", interest.Vector{"history": 0.5}, "hampi", nil)

	p := st.Snapshot("u1")
	p.Interests["history"] = 99
	p.VisitedMonuments["tampered"] = true
	p.PreferredContentTypes["junk"] = 1

	fresh := st.Snapshot("u1")
	assert.InDelta(t, 0.05, fresh.Interests["history"], 1e-9)
	assert.NotContains(t, fresh.VisitedMonuments, "tampered")
	assert.NotContains(t, fresh.PreferredContentTypes, "junk")
}

func TestProfilesIndependentPerUser(t *testing.T) {
	st := NewStore()

	st.Update("u1", interest.Vector{"history": 0.5}, "hampi", nil)
	st.Update("u2", interest.Vector{"art": 0.5}, "", nil)

	assert.NotContains(t, st.Snapshot("u2").Interests, "history")
	assert.NotContains(t, st.Snapshot("u1").Interests, "art")
	assert.Equal(t, 2, st.Len())
}
