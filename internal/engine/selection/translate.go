// Package selection converts a raw user text selection into a candidate
// span. The presentation layer supplies the inclusive rune indices of the
// first and last selected character; how it recovers them from the
// rendered text is its own concern.
package selection

import (
	"github.com/spanlab/spanedit/internal/engine/span"
	"github.com/spanlab/spanedit/internal/engine/text"
)

// Translate converts the inclusive index pair (a, b) into a span over the
// model. The pair may be given in either order. The label is the first
// entry of the allowed list, or span.FallbackLabel when the list is
// empty.
//
// A missing or negative index, or a pair that would produce an empty or
// out-of-range span, yields ok=false; the caller treats that as a silent
// no-op.
func Translate(m *text.Model, a, b int, allowed []string) (sp span.Span, ok bool) {
	if a < 0 || b < 0 {
		return span.Span{}, false
	}
	start, end := a, b
	if start > end {
		start, end = end, start
	}
	// Selection indices are inclusive at the character level; span end is
	// exclusive.
	end++
	if end <= start || end > m.Len() {
		return span.Span{}, false
	}
	label := span.FallbackLabel
	if len(allowed) > 0 {
		label = allowed[0]
	}
	return span.Span{Start: start, End: end, Label: label}, true
}
