// Package compose merges the span set with its plain-text gaps into an
// ordered sequence of display segments covering the whole text exactly
// once. The presentation layer renders segments in order; every rune of a
// plain-text segment remains individually addressable so a user selection
// can be mapped back to exact offsets.
package compose

import (
	"sort"

	"github.com/spanlab/spanedit/internal/engine/span"
	"github.com/spanlab/spanedit/internal/engine/text"
)

// Kind distinguishes the two segment kinds.
type Kind uint8

const (
	// KindText is a plain-text run between entity spans.
	KindText Kind = iota
	// KindEntity is a run covered by a span.
	KindEntity
)

// String returns "text" or "entity".
func (k Kind) String() string {
	if k == KindEntity {
		return "entity"
	}
	return "text"
}

// Segment is one display unit: a plain-text run or an entity run. For
// entity segments Span points at the live editable span; for text
// segments it is nil.
type Segment struct {
	Kind  Kind
	Start int
	End   int
	Text  string
	Span  *span.Editable
}

// Compose merges the given spans with the text's plain gaps. Spans are
// ordered by start offset with a stable sort (two spans can share a start
// offset only transiently during editing, and insertion order then
// decides). Given mutually disjoint spans the result partitions
// [0, m.Len()) exactly once, in order.
func Compose(m *text.Model, spans []*span.Editable) []Segment {
	sorted := append([]*span.Editable(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	segs := make([]Segment, 0, 2*len(sorted)+1)
	cursor := 0
	for _, e := range sorted {
		if cursor < e.Start {
			segs = append(segs, Segment{
				Kind:  KindText,
				Start: cursor,
				End:   e.Start,
				Text:  m.Slice(cursor, e.Start),
			})
		}
		segs = append(segs, Segment{
			Kind:  KindEntity,
			Start: e.Start,
			End:   e.End,
			Text:  m.Slice(e.Start, e.End),
			Span:  e,
		})
		cursor = e.End
	}
	if cursor < m.Len() {
		segs = append(segs, Segment{
			Kind:  KindText,
			Start: cursor,
			End:   m.Len(),
			Text:  m.Slice(cursor, m.Len()),
		})
	}
	return segs
}
