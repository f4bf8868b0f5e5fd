// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshana-ai/narad/internal/config"
)

func newTestStore(t *testing.T, maxHistory int, timeout time.Duration) (*Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)}
	st := NewStore(config.SessionConfig{MaxHistory: maxHistory, Timeout: timeout})
	st.now = clk.Now
	return st, clk
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCreateIsIdempotent(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	assert.True(t, st.Create("s1", "u1"))
	assert.False(t, st.Create("s1", "u1"))
	assert.Equal(t, 1, st.Len())

	uid, ok := st.UserID("s1")
	require.True(t, ok)
	assert.Equal(t, "u1", uid)
}

func TestCreateBindsUserOnLaterCall(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "hello", nil)
	uid, ok := st.UserID("s1")
	require.True(t, ok)
	assert.Empty(t, uid)

	st.Create("s1", "u9")
	uid, _ = st.UserID("s1")
	assert.Equal(t, "u9", uid)
}

func TestAddMessageAutoCreates(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("fresh", RoleUser, "hello there", nil)

	assert.Equal(t, 1, st.Len())
	history := st.GetHistory("fresh", 0)
	require.Len(t, history, 1)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "hello there", history[0].Content)
}

func TestHistoryBoundedFIFO(t *testing.T) {
	st, _ := newTestStore(t, 5, time.Hour)

	for i := 0; i < 12; i++ {
		st.AddMessage("s1", RoleUser, fmt.Sprintf("msg %d", i), nil)
	}

	history := st.GetHistory("s1", 0)
	require.Len(t, history, 5)
	assert.Equal(t, "msg 7", history[0].Content)
	assert.Equal(t, "msg 11", history[4].Content)

	// Statistics still count every append, not just the retained window.
	stats, ok := st.SessionStats("s1")
	require.True(t, ok)
	assert.Equal(t, 12, stats.MessageCount)
}

func TestGetHistoryLimitReturnsMostRecent(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	for i := 0; i < 10; i++ {
		st.AddMessage("s1", RoleAI, fmt.Sprintf("reply %d", i), nil)
	}

	last3 := st.GetHistory("s1", 3)
	require.Len(t, last3, 3)
	assert.Equal(t, "reply 7", last3[0].Content)
	assert.Equal(t, "reply 9", last3[2].Content)
}

func TestGetHistoryMissingSessionIsEmpty(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)
	assert.Empty(t, st.GetHistory("nope", 0))
}

func TestLazyExpiryOnAccess(t *testing.T) {
	st, clk := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "hello", nil)
	clk.Advance(time.Hour + time.Second)

	_, ok := st.GetContext("s1")
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())
}

func TestExpiredSessionRecreatedOnAppend(t *testing.T) {
	st, clk := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "first life", nil)
	st.AddMessage("s1", RoleUser, "second message", nil)
	clk.Advance(2 * time.Hour)

	st.AddMessage("s1", RoleUser, "back again", nil)

	history := st.GetHistory("s1", 0)
	require.Len(t, history, 1)
	assert.Equal(t, "back again", history[0].Content)
}

func TestActivityRefreshSlidesWindow(t *testing.T) {
	st, clk := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "hello", nil)
	clk.Advance(50 * time.Minute)
	st.AddMessage("s1", RoleUser, "still here", nil)
	clk.Advance(50 * time.Minute)

	// 100 minutes since creation, but only 50 since last activity.
	assert.Len(t, st.GetHistory("s1", 0), 2)
}

func TestContextScanMonuments(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "Tell me about Hampi", nil)

	ctx, ok := st.GetContext("s1")
	require.True(t, ok)
	assert.Equal(t, []string{"hampi"}, ctx.MonumentsDiscussed)
	assert.Empty(t, ctx.CurrentMonument, "scanning must not set the current monument")
}

func TestCurrentMonumentComesFromMetadataOnly(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	// A message mentioning several monuments records all of them but
	// never picks one as current.
	st.AddMessage("s1", RoleUser, "compare the taj mahal with hampi please", nil)

	ctx, _ := st.GetContext("s1")
	assert.Equal(t, []string{"hampi", "taj_mahal"}, ctx.MonumentsDiscussed)
	assert.Empty(t, ctx.CurrentMonument)

	st.AddMessage("s1", RoleUser, "let us start there", map[string]any{
		"monument_id": "hampi",
	})

	ctx, _ = st.GetContext("s1")
	assert.Equal(t, "hampi", ctx.CurrentMonument)
}

func TestContextScanMultiWordPhrase(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "Is the TAJ MAHAL open for architecture tours?", nil)

	ctx, _ := st.GetContext("s1")
	assert.Equal(t, []string{"taj_mahal"}, ctx.MonumentsDiscussed)
	assert.Equal(t, []string{"architecture"}, ctx.Topics)
}

func TestContextScanStoryTypesAndTopics(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "any mythology or ghost stories about local culture?", nil)

	ctx, _ := st.GetContext("s1")
	assert.Equal(t, []string{"ghost", "mythology"}, ctx.StoryTypesRequested)
	assert.Equal(t, []string{"culture"}, ctx.Topics)
}

func TestAIMessagesNotScanned(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleAI, "The Red Fort has a rich history of architecture", nil)

	ctx, _ := st.GetContext("s1")
	assert.Empty(t, ctx.MonumentsDiscussed)
	assert.Empty(t, ctx.StoryTypesRequested)
	assert.Empty(t, ctx.Topics)
}

func TestMetadataUpdatesContextAndStats(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "show me around", map[string]any{
		"monument_id": "qutub_minar",
		"location":    "delhi",
		"intent":      "ask_story",
	})
	st.AddMessage("s1", RoleAI, "here is a story", map[string]any{
		"user_rating": 4.5,
	})
	st.AddMessage("s1", RoleUser, "another one", map[string]any{
		"intent":      "ask_story",
		"user_rating": 3,
	})

	ctx, _ := st.GetContext("s1")
	assert.Equal(t, "qutub_minar", ctx.CurrentMonument)
	assert.Equal(t, "delhi", ctx.CurrentLocation)
	assert.Contains(t, ctx.MonumentsDiscussed, "qutub_minar")

	stats, _ := st.SessionStats("s1")
	assert.Equal(t, 2, stats.IntentDistribution["ask_story"])
	assert.Equal(t, []float64{4.5, 3}, stats.ResponseRatings)
}

func TestMalformedMetadataIgnored(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "hello", map[string]any{
		"monument_id": 42,
		"location":    []string{"delhi"},
		"intent":      nil,
		"user_rating": "five stars",
		"unknown_key": struct{}{},
	})

	ctx, _ := st.GetContext("s1")
	assert.Empty(t, ctx.MonumentsDiscussed)
	assert.Empty(t, ctx.CurrentLocation)

	stats, _ := st.SessionStats("s1")
	assert.Empty(t, stats.IntentDistribution)
	assert.Empty(t, stats.ResponseRatings)
	assert.Equal(t, 1, stats.MessageCount)
}

func TestUpdateContextMergeSemantics(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "tell me about hampi", nil)

	monument := "red_fort"
	ok := st.UpdateContext("s1", ContextUpdate{
		Topics:             []string{"art", "culture"},
		MonumentsDiscussed: []string{"red_fort"},
		CurrentMonument:    &monument,
		UserPreferences:    map[string]any{"language": "hi"},
	})
	require.True(t, ok)

	ctx, _ := st.GetContext("s1")
	assert.Equal(t, []string{"hampi", "red_fort"}, ctx.MonumentsDiscussed)
	assert.Equal(t, []string{"art", "culture"}, ctx.Topics)
	assert.Equal(t, "red_fort", ctx.CurrentMonument)
	assert.Equal(t, "hi", ctx.UserPreferences["language"])
}

func TestUpdateContextAbsentSession(t *testing.T) {
	st, clk := newTestStore(t, 50, time.Hour)

	assert.False(t, st.UpdateContext("missing", ContextUpdate{Topics: []string{"art"}}))

	st.AddMessage("s1", RoleUser, "hello", nil)
	clk.Advance(2 * time.Hour)
	assert.False(t, st.UpdateContext("s1", ContextUpdate{Topics: []string{"art"}}))
	assert.Equal(t, 0, st.Len())
}

func TestContextSnapshotIsolation(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "tell me about hampi", nil)
	ctx, _ := st.GetContext("s1")
	ctx.MonumentsDiscussed[0] = "tampered"
	ctx.UserPreferences["injected"] = true

	fresh, _ := st.GetContext("s1")
	assert.Equal(t, []string{"hampi"}, fresh.MonumentsDiscussed)
	assert.NotContains(t, fresh.UserPreferences, "injected")
}

func TestSweepExpired(t *testing.T) {
	st, clk := newTestStore(t, 50, time.Hour)

	st.AddMessage("old1", RoleUser, "a", nil)
	st.AddMessage("old2", RoleUser, "b", nil)
	clk.Advance(30 * time.Minute)
	st.AddMessage("young", RoleUser, "c", nil)
	clk.Advance(45 * time.Minute)

	removed := st.SweepExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, st.Len())
	assert.Len(t, st.GetHistory("young", 0), 1)
}

func TestClearAndClearAll(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "a", nil)
	st.AddMessage("s2", RoleUser, "b", nil)

	assert.True(t, st.Clear("s1"))
	assert.False(t, st.Clear("s1"))
	assert.Equal(t, 1, st.Len())

	assert.Equal(t, 1, st.ClearAll())
	assert.Equal(t, 0, st.Len())
}

func TestStoreStats(t *testing.T) {
	st, _ := newTestStore(t, 50, time.Hour)

	st.AddMessage("s1", RoleUser, "a", nil)
	st.AddMessage("s1", RoleAI, "b", nil)
	st.AddMessage("s2", RoleUser, "c", nil)
	st.Clear("s2")

	stats := st.Stats()
	assert.Equal(t, int64(2), stats.TotalSessions)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, int64(3), stats.TotalMessages)
	assert.Equal(t, 2, stats.MessagesInMemory)

	// The average covers retained messages in live sessions, not the
	// lifetime totals.
	assert.InDelta(t, 2.0, stats.AvgPerSession, 1e-9)

	st.ClearAll()
	assert.Zero(t, st.Stats().AvgPerSession)
}

func TestExportSession(t *testing.T) {
	st, clk := newTestStore(t, 50, time.Hour)

	st.Create("s1", "u1")
	st.AddMessage("s1", RoleUser, "tell me about hampi", map[string]any{"intent": "ask_story"})
	clk.Advance(10 * time.Minute)
	st.AddMessage("s1", RoleAI, "hampi was the vijayanagara capital", nil)

	exp, ok := st.ExportSession("s1")
	require.True(t, ok)
	assert.Equal(t, "s1", exp.SessionID)
	assert.Equal(t, "u1", exp.UserID)
	assert.Len(t, exp.History, 2)
	assert.Equal(t, []string{"hampi"}, exp.Context.MonumentsDiscussed)
	assert.Equal(t, 2, exp.Stats.MessageCount)
	assert.InDelta(t, 10.0, exp.Stats.DurationMinutes, 1e-9)
}

func TestRingWraparound(t *testing.T) {
	r := newRing(3)
	for i := 0; i < 7; i++ {
		r.push(Message{Content: fmt.Sprintf("%d", i)})
	}
	out := r.list(0)
	require.Len(t, out, 3)
	assert.Equal(t, "4", out[0].Content)
	assert.Equal(t, "6", out[2].Content)

	trimmed := r.list(2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "5", trimmed[0].Content)
}
