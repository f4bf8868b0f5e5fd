// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package session

// ring is a fixed-capacity FIFO buffer of messages. When full, appending
// evicts the oldest entry. Capacity is set once at construction.
type ring struct {
	buf   []Message
	start int
	count int
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{buf: make([]Message, capacity)}
}

// push appends a message, evicting the oldest one when the buffer is
// full. Reports whether an eviction occurred.
func (r *ring) push(m Message) bool {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = m
		r.count++
		return false
	}
	r.buf[r.start] = m
	r.start = (r.start + 1) % len(r.buf)
	return true
}

// list returns up to limit messages in chronological order, most recent
// last. limit <= 0 returns the full retained window.
func (r *ring) list(limit int) []Message {
	n := r.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Message, n)
	// Skip the oldest entries when a limit trims the window.
	offset := r.count - n
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.start+offset+i)%len(r.buf)]
	}
	return out
}

func (r *ring) len() int { return r.count }
