// Package host implements the bridge between the engine and the
// embedding application: it supplies the initial document and receives
// the committed span set after every change, plus layout pings after
// renders.
package host

import "github.com/spanlab/spanedit/internal/engine/span"

// Host is the narrow interface the engine talks to. SpansChanged is
// called synchronously after every store mutation with the full
// committed set in host-facing form; LayoutChanged is called after
// mount and after each render whose content size changed.
type Host interface {
	SpansChanged(spans []span.Span)
	LayoutChanged(width, height int)
}

// Funcs adapts plain functions to the Host interface. Nil functions are
// no-ops.
type Funcs struct {
	OnSpans  func(spans []span.Span)
	OnLayout func(width, height int)
}

// SpansChanged calls OnSpans if set.
func (f Funcs) SpansChanged(spans []span.Span) {
	if f.OnSpans != nil {
		f.OnSpans(spans)
	}
}

// LayoutChanged calls OnLayout if set.
func (f Funcs) LayoutChanged(width, height int) {
	if f.OnLayout != nil {
		f.OnLayout(width, height)
	}
}
