// Package boundary computes word-granularity adjustments to span offsets.
// A word is a maximal run of non-whitespace runes. All four operations are
// pure: given the text model and the current span bounds they return a new
// offset, never an error. At a limit they return the offset unchanged.
package boundary

import "github.com/spanlab/spanedit/internal/engine/text"

// MoveStartLeft returns the span start moved one word to the left.
// From start-1 it steps left over whitespace, then over the contiguous
// word preceding it, landing on the word's first rune (floor 0).
func MoveStartLeft(m *text.Model, start int) int {
	if start <= 0 {
		return start
	}
	i := start - 1
	for i > 0 && m.IsWhitespace(i) {
		i--
	}
	for i > 0 && !m.IsWhitespace(i-1) {
		i--
	}
	if i < 0 {
		i = 0
	}
	return i
}

// MoveStartRight returns the span start moved one word to the right.
// It steps over the word at start, then over any following whitespace.
// The result never reaches end: it is clamped to end-1 (floor 0).
func MoveStartRight(m *text.Model, start, end int) int {
	if start >= m.Len()-1 {
		return start
	}
	i := start
	for i < m.Len() && !m.IsWhitespace(i) {
		i++
	}
	for i < m.Len() && m.IsWhitespace(i) {
		i++
	}
	if i >= end {
		i = end - 1
		if i < 0 {
			i = 0
		}
	}
	return i
}

// MoveEndLeft returns the span end moved one word to the left.
// From end-1 it steps left over whitespace, then over the preceding word,
// landing on that word's first rune. The result never reaches start: the
// minimum span width of one rune is preserved by clamping to start+1.
func MoveEndLeft(m *text.Model, start, end int) int {
	if end <= start+1 {
		return end
	}
	i := end - 1
	for i > 0 && m.IsWhitespace(i) {
		i--
	}
	for i > 0 && !m.IsWhitespace(i-1) {
		i--
	}
	if i <= start {
		return start + 1
	}
	return i
}

// MoveEndRight returns the span end moved one word to the right.
// It steps over whitespace starting at end, then over the following word,
// landing just past it (ceiling Len). A result at or below start is
// clamped to start+1.
func MoveEndRight(m *text.Model, start, end int) int {
	if end >= m.Len() {
		return end
	}
	i := end
	for i < m.Len() && m.IsWhitespace(i) {
		i++
	}
	for i < m.Len() && !m.IsWhitespace(i) {
		i++
	}
	if i > m.Len() {
		i = m.Len()
	}
	if i <= start {
		i = start + 1
	}
	return i
}
