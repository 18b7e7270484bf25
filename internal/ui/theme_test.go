package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/spanlab/spanedit/internal/config"
)

func TestLabelColorConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Colors = map[string]string{"person": "#ff0000"}
	th := NewTheme(cfg)

	want := tcell.NewRGBColor(255, 0, 0)

	// Lookup is case-insensitive regardless of config or span casing.
	for _, label := range []string{"PERSON", "person", "Person"} {
		if got := th.LabelColor(label); got != want {
			t.Errorf("LabelColor(%q) = %v, want %v", label, got, want)
		}
	}
}

func TestLabelColorFallbackStable(t *testing.T) {
	th := NewTheme(config.Default())

	first := th.LabelColor("ORG")
	if got := th.LabelColor("org"); got != first {
		t.Error("fallback color not stable across casings")
	}
	if got := th.LabelColor("ORG"); got != first {
		t.Error("fallback color not stable across calls")
	}
	if other := th.LabelColor("LOC"); other == first {
		t.Error("distinct labels received the same fallback color")
	}
}

func TestLabelColorBadHexFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Colors = map[string]string{"PERSON": "not-a-color"}
	th := NewTheme(cfg)

	// The label still gets a usable generated color.
	c := th.LabelColor("PERSON")
	if c == tcell.ColorDefault {
		t.Error("bad hex should fall back to a generated color")
	}
	if got := th.LabelColor("PERSON"); got != c {
		t.Error("fallback not stable")
	}
}

func TestAssignedLabels(t *testing.T) {
	th := NewTheme(config.Default())
	th.LabelColor("B")
	th.LabelColor("A")

	got := th.AssignedLabels()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("AssignedLabels() = %v, want [A B]", got)
	}
}

func TestThemeStyles(t *testing.T) {
	dark := NewTheme(config.Default())
	light := config.Default()
	light.Theme = "light"
	lt := NewTheme(light)

	if dark.Base() == lt.Base() {
		t.Error("dark and light base styles should differ")
	}
	if dark.EntityStyle("A") == dark.EditingStyle("A") {
		t.Error("entity and editing styles should differ")
	}
}
