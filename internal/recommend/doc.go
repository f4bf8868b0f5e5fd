// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package recommend implements a hybrid recommendation engine for
// monument-tourism content.
//
// # Architecture
//
// Each request runs four candidate generators in a fixed order:
//
//   - Content-based: interest-vector similarity against catalog items
//   - Collaborative: popularity within the user's preferred content types
//   - Trending: curated trending entries, capped at half the limit
//   - Cultural similarity: items tied to the monument under discussion
//
// Candidates are merged with first-wins deduplication, so the earlier
// generator keeps the attribution when two surface the same item. Raw
// scores are then weighted per algorithm, given a freshness bonus, and
// the ranked list is diversified by content type before truncation.
//
// # Degradation
//
// Recommend never fails a chat turn. A panic in any generator, or a
// context already cancelled on entry, degrades the request to a
// most-popular fallback list and skips the profile update.
//
// # Usage
//
//	engine := recommend.NewEngine(cat, profiles, cfg)
//	recs := engine.Recommend(ctx, text, sctx, userID, 5)
package recommend
