// Package span holds the annotation data model and the Store, the sole
// mutable state of the engine. A Span is the plain form exchanged with the
// host; an Editable adds the per-span editing state the widget tracks.
package span

// Span is a labeled half-open rune range [Start, End) over the source
// text. This is the canonical form the host supplies and consumes.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// Width returns the number of runes the span covers.
func (s Span) Width() int {
	return s.End - s.Start
}

// Valid reports whether the span satisfies 0 <= Start < End <= textLen.
func (s Span) Valid(textLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= textLen
}

// Intersects reports whether two half-open spans share at least one rune.
func (s Span) Intersects(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Editable is a span under interactive editing. The ID is unique within
// its Store and is never part of the host-facing form.
type Editable struct {
	Span

	// ID is the store-scoped identifier, assigned at creation and never
	// reused within a store's lifetime.
	ID int

	// Editing reports whether the label-edit state is active.
	Editing bool

	// Pending holds the label value being edited. It becomes the
	// committed Label only through Store.Approve.
	Pending string
}

// Direction selects which way a boundary adjustment moves.
type Direction int

const (
	// Left moves a boundary one word toward offset 0.
	Left Direction = iota
	// Right moves a boundary one word toward the end of the text.
	Right
)

// String returns "left" or "right".
func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}
