package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spanlab/spanedit/internal/engine/span"
	"github.com/spanlab/spanedit/internal/host"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func newTestApp(t *testing.T, configTOML string) *Application {
	t.Helper()
	opts := Options{LogLevel: "error"}
	if configTOML != "" {
		opts.ConfigPath = writeFile(t, "spanedit.toml", configTOML)
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)
	return a
}

const labelsTOML = `allowed_labels = ["PERSON", "ORG"]`

func TestNewWithDefaults(t *testing.T) {
	a := newTestApp(t, "")
	if a.Config().Theme != "dark" {
		t.Errorf("Theme = %q, want dark", a.Config().Theme)
	}
}

func TestNewWithBadConfig(t *testing.T) {
	path := writeFile(t, "bad.toml", `theme = "neon"`)
	if _, err := New(Options{ConfigPath: path}); err == nil {
		t.Fatal("New succeeded with invalid config")
	}
}

func TestSeedFiltersThroughToHost(t *testing.T) {
	a := newTestApp(t, labelsTOML)
	a.LoadDocument(&host.Document{
		Text: "The quick fox",
		Spans: []span.Span{
			{Start: 0, End: 3, Label: "PERSON"},
			{Start: 4, End: 9, Label: "MISC"}, // not allowed, dropped
		},
	})

	var emissions [][]span.Span
	if err := a.AttachHost(host.Funcs{
		OnSpans: func(spans []span.Span) { emissions = append(emissions, spans) },
	}); err != nil {
		t.Fatalf("AttachHost: %v", err)
	}

	a.Seed()
	if len(emissions) != 1 {
		t.Fatalf("emissions = %d, want 1", len(emissions))
	}
	if len(emissions[0]) != 1 || emissions[0][0].Label != "PERSON" {
		t.Errorf("seed emission = %+v, want single PERSON span", emissions[0])
	}
}

func TestSelectCreatesAndEmits(t *testing.T) {
	a := newTestApp(t, labelsTOML)
	a.LoadDocument(&host.Document{Text: "The quick fox"})

	var emissions [][]span.Span
	if err := a.AttachHost(host.Funcs{
		OnSpans: func(spans []span.Span) { emissions = append(emissions, spans) },
	}); err != nil {
		t.Fatalf("AttachHost: %v", err)
	}
	a.Seed()

	if !a.Select(4, 8) {
		t.Fatal("Select(4, 8) = false")
	}
	want := span.Span{Start: 4, End: 9, Label: "PERSON"}
	last := emissions[len(emissions)-1]
	if len(last) != 1 || last[0] != want {
		t.Errorf("emission = %+v, want [%+v]", last, want)
	}

	// Malformed selections are silent no-ops.
	before := len(emissions)
	if a.Select(-1, 5) {
		t.Error("Select(-1, 5) should reject")
	}
	if a.Select(12, 13) {
		t.Error("Select past end should reject")
	}
	if len(emissions) != before {
		t.Error("rejected selections must not emit")
	}
}

func TestCyclePendingAndApprove(t *testing.T) {
	a := newTestApp(t, labelsTOML)
	a.LoadDocument(&host.Document{Text: "The quick fox"})
	a.Seed()

	a.Select(4, 8)
	id := a.Store().Editables()[0].ID

	a.CyclePending(id, span.Right)
	if got := a.Store().Get(id).Pending; got != "ORG" {
		t.Errorf("Pending = %q, want ORG", got)
	}
	a.CyclePending(id, span.Right)
	if got := a.Store().Get(id).Pending; got != "PERSON" {
		t.Errorf("Pending = %q, want PERSON (wrapped)", got)
	}
	a.CyclePending(id, span.Left)
	if got := a.Store().Get(id).Pending; got != "ORG" {
		t.Errorf("Pending = %q, want ORG (cycled left)", got)
	}

	a.Approve(id)
	if got := a.Store().Get(id).Label; got != "ORG" {
		t.Errorf("Label = %q, want ORG", got)
	}
}

func TestRulesVetoAndNormalize(t *testing.T) {
	rules := writeFile(t, "rules.lua", `
function allow_span(start_off, end_off, label)
    return end_off - start_off > 1
end
function normalize_label(label)
    return string.upper(label)
end
`)
	cfgPath := writeFile(t, "spanedit.toml", `allowed_labels = ["person", "PERSON", "ORG"]`)
	a, err := New(Options{ConfigPath: cfgPath, RulesPath: rules, LogLevel: "error"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)

	a.LoadDocument(&host.Document{Text: "The quick fox"})
	a.Seed()

	// Single-character span vetoed by the script.
	if a.Select(0, 0) {
		t.Error("vetoed selection should not create a span")
	}
	if !a.Select(4, 8) {
		t.Fatal("Select(4, 8) = false")
	}

	// Cycling onto "person" normalizes to "PERSON", which is allowed.
	id := a.Store().Editables()[0].ID
	a.Store().SetPendingLabel(id, "ORG")
	a.CyclePending(id, span.Left) // steps from ORG back to PERSON
	if got := a.Store().Get(id).Pending; got != "PERSON" {
		t.Errorf("Pending = %q, want PERSON", got)
	}
}

func TestRunWithoutDocument(t *testing.T) {
	a := newTestApp(t, "")
	if err := a.Run(); err != ErrNoDocument {
		t.Errorf("Run() = %v, want ErrNoDocument", err)
	}
}
