// Package ui renders the annotation widget on a terminal and turns user
// input into engine operations. Every plain-text rune occupies its own
// addressable cell so a mouse selection maps back to exact rune offsets.
package ui

import (
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/spanlab/spanedit/internal/config"
)

// Theme resolves label colors and base styles for the widget. Label
// lookup is case-insensitive: labels are upper-cased before matching, so
// a configured color for "person" applies to "PERSON" spans. Labels
// without a configured color receive a stable generated palette color.
type Theme struct {
	base     tcell.Style
	entity   tcell.Style
	editing  tcell.Style
	status   tcell.Style
	dark     bool
	colors   map[string]tcell.Color
	assigned map[string]tcell.Color
}

// NewTheme builds a theme from the configuration. Unparseable hex colors
// are skipped; the affected labels fall back to the generated palette.
func NewTheme(cfg *config.Config) *Theme {
	dark := cfg.Theme != "light"

	fg, bg := tcell.ColorWhite, tcell.ColorBlack
	if !dark {
		fg, bg = tcell.ColorBlack, tcell.ColorWhite
	}

	t := &Theme{
		base:     tcell.StyleDefault.Foreground(fg).Background(bg),
		dark:     dark,
		colors:   make(map[string]tcell.Color),
		assigned: make(map[string]tcell.Color),
	}
	t.entity = t.base.Bold(true)
	t.editing = t.base.Reverse(true)
	t.status = t.base.Dim(true)

	for label, hex := range cfg.Colors {
		c, err := colorful.Hex(strings.TrimSpace(hex))
		if err != nil {
			continue
		}
		r, g, b := c.RGB255()
		t.colors[strings.ToUpper(label)] = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return t
}

// Base returns the default text style.
func (t *Theme) Base() tcell.Style { return t.base }

// Status returns the status line style.
func (t *Theme) Status() tcell.Style { return t.status }

// LabelColor returns the color for a label, generating a palette entry
// for labels without a configured color. The generated color is stable
// for the theme's lifetime.
func (t *Theme) LabelColor(label string) tcell.Color {
	key := strings.ToUpper(label)
	if c, ok := t.colors[key]; ok {
		return c
	}
	if c, ok := t.assigned[key]; ok {
		return c
	}
	c := t.paletteColor(len(t.assigned))
	t.assigned[key] = c
	return c
}

// EntityStyle returns the style for a committed entity run.
func (t *Theme) EntityStyle(label string) tcell.Style {
	return t.entity.Foreground(t.LabelColor(label))
}

// EditingStyle returns the style for an entity run in editing state.
func (t *Theme) EditingStyle(label string) tcell.Style {
	return t.editing.Foreground(t.LabelColor(label))
}

// paletteColor generates the nth fallback color. Hues step by the golden
// angle so nearby labels stay visually distinct.
func (t *Theme) paletteColor(n int) tcell.Color {
	hue := float64((n*137)%360) + float64(n%2)*0.5
	v := 0.9
	if !t.dark {
		v = 0.6
	}
	c := colorful.Hsv(hue, 0.65, v)
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// AssignedLabels returns the labels that have received generated palette
// colors, sorted for deterministic iteration.
func (t *Theme) AssignedLabels() []string {
	out := make([]string, 0, len(t.assigned))
	for k := range t.assigned {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
