// Package text provides the immutable text model the annotation engine
// operates on. Offsets throughout the engine are rune offsets into this
// model, half-open [start, end).
package text

import "unicode"

// Model wraps an immutable source text and exposes rune-indexed queries.
// Model is a read-only value; it is safe to share freely.
type Model struct {
	source string
	runes  []rune
}

// New creates a text model for the given source string.
func New(source string) *Model {
	return &Model{
		source: source,
		runes:  []rune(source),
	}
}

// Len returns the length of the text in runes.
func (m *Model) Len() int {
	return len(m.runes)
}

// String returns the original source text.
func (m *Model) String() string {
	return m.source
}

// IsWhitespace reports whether the rune at index i is whitespace.
// Returns false for out-of-range indices; callers are expected to clamp.
func (m *Model) IsWhitespace(i int) bool {
	if i < 0 || i >= len(m.runes) {
		return false
	}
	return unicode.IsSpace(m.runes[i])
}

// At returns the rune at index i, or 0 for out-of-range indices.
func (m *Model) At(i int) rune {
	if i < 0 || i >= len(m.runes) {
		return 0
	}
	return m.runes[i]
}

// Slice returns the text covering the rune range [start, end), clamped to
// the valid range. An inverted or empty range yields "".
func (m *Model) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(m.runes) {
		end = len(m.runes)
	}
	if start >= end {
		return ""
	}
	return string(m.runes[start:end])
}

// ClampOffset clamps an offset to the valid range [0, Len()].
func (m *Model) ClampOffset(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(m.runes) {
		return len(m.runes)
	}
	return i
}
