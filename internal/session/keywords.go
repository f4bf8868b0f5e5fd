// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package session

import "strings"

// Context scanning works on fixed keyword vocabularies. Matching is
// case-insensitive substring containment; matched monument phrases are
// recorded under their canonical snake_case identifiers so they line up
// with catalog monument references.
var (
	monumentKeywords = map[string]string{
		"taj mahal":        "taj_mahal",
		"red fort":         "red_fort",
		"hampi":            "hampi",
		"qutub minar":      "qutub_minar",
		"gateway of india": "gateway_of_india",
	}

	storyTypeKeywords = []string{
		"history", "mythology", "folklore", "horror", "legend", "ghost",
	}

	topicKeywords = []string{
		"architecture", "culture", "tradition", "festival", "religion", "art",
	}
)

// scanText updates the derived context from a single user message. Only
// user messages are scanned; AI replies echo vocabulary terms and would
// pollute the context. Scanning only accumulates sets: the current
// monument and location are set exclusively from message metadata.
func (c *conversationContext) scanText(text string) {
	lowered := strings.ToLower(text)

	for phrase, id := range monumentKeywords {
		if strings.Contains(lowered, phrase) {
			c.monuments[id] = struct{}{}
		}
	}
	for _, kw := range storyTypeKeywords {
		if strings.Contains(lowered, kw) {
			c.storyTypes[kw] = struct{}{}
		}
	}
	for _, kw := range topicKeywords {
		if strings.Contains(lowered, kw) {
			c.topics[kw] = struct{}{}
		}
	}
}
