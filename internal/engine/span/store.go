package span

import (
	"sort"

	"github.com/spanlab/spanedit/internal/engine/boundary"
	"github.com/spanlab/spanedit/internal/engine/text"
)

// FallbackLabel is assigned to user-created spans when the allowed-label
// list is empty.
const FallbackLabel = "UNLABELED"

// Notifier receives the full committed span set after every store
// mutation. Delivery is synchronous and strictly ordered; the store never
// coalesces or reorders notifications.
type Notifier interface {
	SpansChanged(spans []Span)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(spans []Span)

// SpansChanged calls the function.
func (f NotifierFunc) SpansChanged(spans []Span) { f(spans) }

// Store owns the editable span set. All operations are synchronous and
// run to completion; operations referencing an unknown id, or that would
// violate an invariant, are silent no-ops. Spans in the store are always
// valid for the text and mutually disjoint.
//
// Store is not safe for concurrent use; the engine is single-threaded and
// event-driven.
type Store struct {
	model    *text.Model
	allowed  []string
	notifier Notifier
	nextID   int
	spans    []*Editable
}

// NewStore creates an empty store over the given text. The allowed list
// defines which labels seed spans may carry and which labels pending
// edits may take; its first entry is the default for new spans.
func NewStore(m *text.Model, allowed []string, n Notifier) *Store {
	return &Store{
		model:    m,
		allowed:  append([]string(nil), allowed...),
		notifier: n,
		nextID:   1,
	}
}

// Allowed returns the allowed-label list in preference order.
func (s *Store) Allowed() []string {
	return append([]string(nil), s.allowed...)
}

// DefaultLabel returns the label assigned to newly created spans.
func (s *Store) DefaultLabel() string {
	if len(s.allowed) == 0 {
		return FallbackLabel
	}
	return s.allowed[0]
}

// Len returns the number of spans currently in the store.
func (s *Store) Len() int {
	return len(s.spans)
}

// Seed loads the host-supplied initial spans. Spans with out-of-range
// offsets, labels outside the allowed set, or offsets intersecting an
// already-accepted seed span are silently dropped. A single notification
// follows, reflecting the accepted set.
func (s *Store) Seed(spans []Span) {
	for _, sp := range spans {
		if !sp.Valid(s.model.Len()) {
			continue
		}
		if !s.labelAllowed(sp.Label) {
			continue
		}
		if s.intersectsAny(sp, -1) {
			continue
		}
		s.insert(sp, false)
	}
	s.emit()
}

// Create inserts a user-created span, typically produced by the selection
// translator. The span opens directly in editing state so the user can
// pick its label. A span intersecting an existing one is rejected as a
// silent no-op with no notification.
func (s *Store) Create(sp Span) bool {
	if !sp.Valid(s.model.Len()) {
		return false
	}
	if s.intersectsAny(sp, -1) {
		return false
	}
	s.insert(sp, true)
	s.emit()
	return true
}

// ToggleEdit flips the editing state of the span with the given id.
// Entering edit copies the committed label into the pending label;
// leaving edit this way discards the pending label without committing.
func (s *Store) ToggleEdit(id int) {
	e := s.get(id)
	if e == nil {
		return
	}
	e.Editing = !e.Editing
	e.Pending = e.Label
	s.emit()
}

// SetPendingLabel updates the pending label of a span in editing state.
// The value must be an allowed label (any value is accepted when the
// allowed list is empty). No commit occurs.
func (s *Store) SetPendingLabel(id int, label string) {
	e := s.get(id)
	if e == nil || !e.Editing {
		return
	}
	if len(s.allowed) > 0 && !s.labelAllowed(label) {
		return
	}
	e.Pending = label
	s.emit()
}

// Approve commits the pending label of a span in editing state and
// leaves editing. This is the only path that changes a committed label.
func (s *Store) Approve(id int) {
	e := s.get(id)
	if e == nil || !e.Editing {
		return
	}
	e.Label = e.Pending
	e.Editing = false
	s.emit()
}

// AdjustStart moves the span's start offset one word in the given
// direction, then re-clamps so that Start < End still holds and no
// neighbor span is crossed.
func (s *Store) AdjustStart(id int, dir Direction) {
	e := s.get(id)
	if e == nil {
		return
	}
	var next int
	if dir == Left {
		next = boundary.MoveStartLeft(s.model, e.Start)
	} else {
		next = boundary.MoveStartRight(s.model, e.Start, e.End)
	}
	// Never cross a span that sits entirely before this one.
	for _, o := range s.spans {
		if o.ID != e.ID && o.End <= e.Start && next < o.End {
			next = o.End
		}
	}
	if next >= e.End {
		next = e.End - 1
		if next < 0 {
			next = 0
		}
	}
	e.Start = next
	s.emit()
}

// AdjustEnd moves the span's end offset one word in the given direction,
// then re-clamps so that Start < End still holds and no neighbor span is
// crossed.
func (s *Store) AdjustEnd(id int, dir Direction) {
	e := s.get(id)
	if e == nil {
		return
	}
	var next int
	if dir == Left {
		next = boundary.MoveEndLeft(s.model, e.Start, e.End)
	} else {
		next = boundary.MoveEndRight(s.model, e.Start, e.End)
	}
	// Never cross a span that sits entirely after this one.
	for _, o := range s.spans {
		if o.ID != e.ID && o.Start >= e.End && next > o.Start {
			next = o.Start
		}
	}
	if next <= e.Start {
		next = e.Start + 1
	}
	e.End = next
	s.emit()
}

// Remove deletes the span with the given id regardless of editing state.
func (s *Store) Remove(id int) {
	for i, e := range s.spans {
		if e.ID == id {
			s.spans = append(s.spans[:i], s.spans[i+1:]...)
			s.emit()
			return
		}
	}
}

// Committed returns the current span set in host-facing form: committed
// labels only, internal id and editing state stripped, ordered by start
// offset (insertion-stable on ties).
func (s *Store) Committed() []Span {
	out := make([]Span, len(s.spans))
	for i, e := range s.spans {
		out[i] = e.Span
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Editables returns the editable spans in insertion order. The returned
// slice is a copy; the pointed-to spans are live.
func (s *Store) Editables() []*Editable {
	return append([]*Editable(nil), s.spans...)
}

// Get returns the editable span with the given id, or nil.
func (s *Store) Get(id int) *Editable {
	return s.get(id)
}

func (s *Store) get(id int) *Editable {
	for _, e := range s.spans {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *Store) insert(sp Span, editing bool) *Editable {
	e := &Editable{
		Span:    sp,
		ID:      s.nextID,
		Editing: editing,
		Pending: sp.Label,
	}
	s.nextID++
	s.spans = append(s.spans, e)
	return e
}

func (s *Store) labelAllowed(label string) bool {
	for _, a := range s.allowed {
		if a == label {
			return true
		}
	}
	return false
}

// intersectsAny reports whether sp intersects any stored span other than
// the one with the given id (pass -1 to check against all).
func (s *Store) intersectsAny(sp Span, exceptID int) bool {
	for _, e := range s.spans {
		if e.ID != exceptID && sp.Intersects(e.Span) {
			return true
		}
	}
	return false
}

func (s *Store) emit() {
	if s.notifier != nil {
		s.notifier.SpansChanged(s.Committed())
	}
}
