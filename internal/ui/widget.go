package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/spanlab/spanedit/internal/compose"
	"github.com/spanlab/spanedit/internal/config"
	"github.com/spanlab/spanedit/internal/engine/span"
	"github.com/spanlab/spanedit/internal/engine/text"
	"github.com/spanlab/spanedit/internal/event"
)

// Controller is the engine surface the widget drives. The widget never
// touches the store directly; all mutations flow through these
// operations, which are silent no-ops on invalid input.
type Controller interface {
	Model() *text.Model
	Segments() []compose.Segment
	AllowedLabels() []string

	// Select converts an inclusive rune index pair into a new span.
	Select(a, b int) bool
	ToggleEdit(id int)
	CyclePending(id int, dir span.Direction)
	Approve(id int)
	AdjustStart(id int, dir span.Direction)
	AdjustEnd(id int, dir span.Direction)
	Remove(id int)
}

// configEvent carries a live config reload into the tcell event loop.
type configEvent struct {
	tcell.EventTime
	cfg *config.Config
}

func newConfigEvent(cfg *config.Config) *configEvent {
	ev := &configEvent{cfg: cfg}
	ev.SetEventNow()
	return ev
}

// Widget is the interactive terminal annotation view. It owns the
// screen, maps every rendered rune to its offset so mouse selections
// recover exact positions, and publishes a layout notification after
// mount and whenever the rendered content height changes.
type Widget struct {
	screen tcell.Screen
	ctrl   Controller
	bus    *event.Bus
	theme  *Theme

	disableBoundary bool

	focusID   int // focused span id, 0 = none
	selAnchor int // rune offset where a mouse drag began, -1 = none
	selHead   int

	cells    [][]int // screen cell -> rune offset, -1 = not addressable
	contentH int
	mounted  bool
}

// New creates a widget on a real terminal screen.
func New(ctrl Controller, cfg *config.Config, bus *event.Bus) (*Widget, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, ctrl, cfg, bus), nil
}

// NewWithScreen creates a widget on the given screen. Tests pass a
// tcell simulation screen.
func NewWithScreen(screen tcell.Screen, ctrl Controller, cfg *config.Config, bus *event.Bus) *Widget {
	return &Widget{
		screen:          screen,
		ctrl:            ctrl,
		bus:             bus,
		theme:           NewTheme(cfg),
		disableBoundary: cfg.DisableBoundaryControls,
		selAnchor:       -1,
		selHead:         -1,
	}
}

// ReloadConfig applies a live configuration change. Safe to call from
// any goroutine; the change is handed to the event loop.
func (w *Widget) ReloadConfig(cfg *config.Config) {
	_ = w.screen.PostEvent(newConfigEvent(cfg))
}

// Run initializes the screen and processes events until the user quits.
func (w *Widget) Run() error {
	if err := w.screen.Init(); err != nil {
		return err
	}
	defer w.screen.Fini()
	w.screen.EnableMouse()

	w.render()

	for {
		ev := w.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			w.screen.Sync()
		case *tcell.EventKey:
			if quit := w.handleKey(ev); quit {
				return nil
			}
		case *tcell.EventMouse:
			w.handleMouse(ev)
		case *configEvent:
			w.theme = NewTheme(ev.cfg)
			w.disableBoundary = ev.cfg.DisableBoundaryControls
		case *tcell.EventInterrupt:
			return nil
		}
		w.render()
	}
}

// handleKey maps a key event to an engine operation. Returns true when
// the widget should exit.
func (w *Widget) handleKey(ev *tcell.EventKey) bool {
	focused := w.focusedSpan()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		if focused != nil && focused.Editing {
			w.ctrl.ToggleEdit(focused.ID)
			return false
		}
		return true
	case tcell.KeyTAB:
		w.focusNext(1)
		return false
	case tcell.KeyBacktab:
		w.focusNext(-1)
		return false
	case tcell.KeyEnter:
		if focused == nil {
			return false
		}
		if focused.Editing {
			w.ctrl.Approve(focused.ID)
		} else {
			w.ctrl.ToggleEdit(focused.ID)
		}
		return false
	case tcell.KeyUp:
		if focused != nil {
			w.ctrl.CyclePending(focused.ID, span.Left)
		}
		return false
	case tcell.KeyDown:
		if focused != nil {
			w.ctrl.CyclePending(focused.ID, span.Right)
		}
		return false
	case tcell.KeyLeft:
		w.adjust(focused, ev.Modifiers()&tcell.ModShift != 0, span.Left)
		return false
	case tcell.KeyRight:
		w.adjust(focused, ev.Modifiers()&tcell.ModShift != 0, span.Right)
		return false
	case tcell.KeyDelete, tcell.KeyBackspace2:
		if focused != nil {
			w.ctrl.Remove(focused.ID)
			w.focusID = 0
		}
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'e':
		if focused != nil {
			w.ctrl.ToggleEdit(focused.ID)
		}
	case '<':
		w.adjust(focused, true, span.Left)
	case '>':
		w.adjust(focused, true, span.Right)
	case 'd':
		if focused != nil {
			w.ctrl.Remove(focused.ID)
			w.focusID = 0
		}
	}
	return false
}

// adjust moves a boundary of the focused span. The arrow controls are
// suppressed entirely when disabled in config; the controller operations
// themselves stay available to embedders.
func (w *Widget) adjust(focused *span.Editable, end bool, dir span.Direction) {
	if focused == nil || w.disableBoundary {
		return
	}
	if end {
		w.ctrl.AdjustEnd(focused.ID, dir)
	} else {
		w.ctrl.AdjustStart(focused.ID, dir)
	}
}

// handleMouse tracks a drag over addressable cells and converts the
// released range into a selection. A plain click on an entity focuses it
// instead. The pending raw selection is always cleared after release so
// the next mouse action starts fresh.
func (w *Widget) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if ev.Buttons()&tcell.Button1 != 0 {
		off := w.offsetAt(x, y)
		if off >= 0 {
			if w.selAnchor < 0 {
				w.selAnchor = off
			}
			w.selHead = off
		}
		return
	}
	if w.selAnchor < 0 {
		return
	}
	anchor, head := w.selAnchor, w.selHead
	w.selAnchor, w.selHead = -1, -1

	if anchor == head {
		if e := w.entityAt(anchor); e != nil {
			w.focusID = e.ID
			return
		}
	}
	if w.ctrl.Select(anchor, head) {
		w.focusID = w.newestSpanID()
	}
}

// focusedSpan returns the focused editable span, or nil.
func (w *Widget) focusedSpan() *span.Editable {
	if w.focusID == 0 {
		return nil
	}
	for _, seg := range w.ctrl.Segments() {
		if seg.Span != nil && seg.Span.ID == w.focusID {
			return seg.Span
		}
	}
	return nil
}

// focusNext moves focus through the spans in display order.
func (w *Widget) focusNext(step int) {
	var spans []*span.Editable
	for _, seg := range w.ctrl.Segments() {
		if seg.Span != nil {
			spans = append(spans, seg.Span)
		}
	}
	if len(spans) == 0 {
		w.focusID = 0
		return
	}
	idx := -1
	for i, e := range spans {
		if e.ID == w.focusID {
			idx = i
			break
		}
	}
	idx = (idx + step + len(spans)) % len(spans)
	w.focusID = spans[idx].ID
}

// entityAt returns the span covering the given rune offset, if any.
func (w *Widget) entityAt(off int) *span.Editable {
	for _, seg := range w.ctrl.Segments() {
		if seg.Span != nil && off >= seg.Start && off < seg.End {
			return seg.Span
		}
	}
	return nil
}

// newestSpanID returns the highest span id, i.e. the most recent create.
func (w *Widget) newestSpanID() int {
	max := 0
	for _, seg := range w.ctrl.Segments() {
		if seg.Span != nil && seg.Span.ID > max {
			max = seg.Span.ID
		}
	}
	return max
}

// offsetAt maps a screen cell to a rune offset, or -1.
func (w *Widget) offsetAt(x, y int) int {
	if y < 0 || y >= len(w.cells) {
		return -1
	}
	row := w.cells[y]
	if x < 0 || x >= len(row) {
		return -1
	}
	return row[x]
}

// render draws the composed segments, rebuilding the cell-to-offset map,
// and publishes a layout notification after mount and whenever the
// content height changes.
func (w *Widget) render() {
	width, height := w.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	w.screen.Clear()
	w.cells = make([][]int, height)
	for i := range w.cells {
		w.cells[i] = make([]int, width)
		for j := range w.cells[i] {
			w.cells[i][j] = -1
		}
	}

	x, y := 0, 0
	for _, seg := range w.ctrl.Segments() {
		style := w.theme.Base()
		if seg.Span != nil {
			if seg.Span.Editing {
				style = w.theme.EditingStyle(seg.Span.Pending)
			} else {
				style = w.theme.EntityStyle(seg.Span.Label)
			}
			if seg.Span.ID == w.focusID && !w.disableBoundary {
				x, y = w.drawMarker(x, y, width, '‹', style)
			}
		}
		x, y = w.drawSegment(seg, x, y, width, height, style)
		if seg.Span != nil {
			if seg.Span.ID == w.focusID && !w.disableBoundary {
				x, y = w.drawMarker(x, y, width, '›', style)
			}
			x, y = w.drawTag(seg.Span, x, y, width)
		}
	}
	contentH := y + 1

	w.drawStatus(width, height)
	w.screen.Show()

	if !w.mounted || contentH != w.contentH {
		w.contentH = contentH
		w.mounted = true
		if w.bus != nil {
			w.bus.Publish(event.TopicLayoutChanged, event.Layout{Width: width, Height: contentH})
		}
	}
}

// drawSegment draws one segment, wrapping at the screen edge and
// recording each drawn grapheme's first rune offset in the cell map.
func (w *Widget) drawSegment(seg compose.Segment, x, y, width, height int, style tcell.Style) (int, int) {
	off := seg.Start
	gr := uniseg.NewGraphemes(seg.Text)
	for gr.Next() {
		runes := gr.Runes()
		cw := gr.Width()
		if cw <= 0 {
			off += len(runes)
			continue
		}
		if x+cw > width {
			x, y = 0, y+1
		}
		if y >= height-1 {
			// Status line owns the last row; clip overflow.
			return x, y
		}
		w.screen.SetContent(x, y, runes[0], runes[1:], style)
		for i := 0; i < cw && x+i < width; i++ {
			w.cells[y][x+i] = off
		}
		off += len(runes)
		x += cw
	}
	return x, y
}

// drawTag draws the label tag after an entity run. The editing state
// shows the pending label with a marker so the user sees the uncommitted
// value.
func (w *Widget) drawTag(e *span.Editable, x, y, width int) (int, int) {
	label := e.Label
	if e.Editing {
		label = e.Pending + "*"
	}
	tag := " " + label + " "
	style := w.theme.Status().Foreground(w.theme.LabelColor(label))
	for _, r := range tag {
		if x >= width {
			x, y = 0, y+1
		}
		if y >= len(w.cells)-1 {
			return x, y
		}
		w.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x, y
}

// drawMarker draws a single boundary arrow rune.
func (w *Widget) drawMarker(x, y, width int, r rune, style tcell.Style) (int, int) {
	if x >= width {
		x, y = 0, y+1
	}
	if y >= len(w.cells)-1 {
		return x, y
	}
	w.screen.SetContent(x, y, r, nil, style)
	return x + 1, y
}

// drawStatus draws the help/status line on the bottom row.
func (w *Widget) drawStatus(width, height int) {
	msg := "drag: new span  tab: focus  enter: edit/approve  ↑↓: label  ←→/<>: bounds  d: delete  q: quit"
	if w.disableBoundary {
		msg = "drag: new span  tab: focus  enter: edit/approve  ↑↓: label  d: delete  q: quit"
	}
	if f := w.focusedSpan(); f != nil {
		msg = fmt.Sprintf("[%d,%d) %s | %s", f.Start, f.End, f.Label, msg)
	}
	style := w.theme.Status()
	y := height - 1
	x := 0
	for _, r := range msg {
		if x >= width {
			break
		}
		w.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		w.screen.SetContent(x, y, ' ', nil, style)
	}
}

// ContentHeight returns the height of the last rendered content.
func (w *Widget) ContentHeight() int { return w.contentH }

// Stop asks the event loop to exit by injecting an interrupt event.
func (w *Widget) Stop() {
	_ = w.screen.PostEvent(tcell.NewEventInterrupt(time.Now()))
}
