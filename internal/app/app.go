// Package app wires the annotation engine together: configuration,
// document, span store, event bus, label rules, host bridges, and the
// terminal widget.
package app

import (
	"github.com/spanlab/spanedit/internal/compose"
	"github.com/spanlab/spanedit/internal/config"
	"github.com/spanlab/spanedit/internal/engine/selection"
	"github.com/spanlab/spanedit/internal/engine/span"
	"github.com/spanlab/spanedit/internal/engine/text"
	"github.com/spanlab/spanedit/internal/event"
	"github.com/spanlab/spanedit/internal/host"
	"github.com/spanlab/spanedit/internal/plugin"
	"github.com/spanlab/spanedit/internal/ui"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty means defaults.
	ConfigPath string
	// RulesPath is an optional Lua label-rules script.
	RulesPath string
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
	// Watch reloads the configuration file on change.
	Watch bool
}

// Application owns the engine components for one document session. It
// implements ui.Controller; all user actions flow through it into the
// store, and every store mutation is published on the bus before the
// triggering call returns.
type Application struct {
	opts    Options
	cfg     *config.Config
	logger  *Logger
	bus     *event.Bus
	rules   *plugin.Rules
	watcher *config.Watcher

	model *text.Model
	store *span.Store
	seed  []span.Span

	running bool
}

// New creates an application from options: loads configuration and the
// optional rules script, and prepares the event bus.
func New(opts Options) (*Application, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, NewComponentError("config", "load", err)
		}
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := NewLogger(ParseLogLevel(level), nil)

	var rules *plugin.Rules
	if opts.RulesPath != "" {
		var err error
		rules, err = plugin.LoadFile(opts.RulesPath)
		if err != nil {
			return nil, NewComponentError("plugin", "load", err)
		}
	}

	return &Application{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		bus:    event.NewBus(),
		rules:  rules,
	}, nil
}

// Config returns the active configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() *Logger { return a.logger }

// Bus returns the event bus.
func (a *Application) Bus() *event.Bus { return a.bus }

// LoadDocument installs the host-supplied text and initial spans. Seed
// spans are filtered and loaded when Run (or Seed) executes, after hosts
// have attached, so the first emission reaches them.
func (a *Application) LoadDocument(doc *host.Document) {
	a.model = text.New(doc.Text)
	a.store = span.NewStore(a.model, a.cfg.AllowedLabels, span.NotifierFunc(func(spans []span.Span) {
		a.bus.Publish(event.TopicSpansChanged, spans)
	}))
	a.seed = doc.Spans
}

// AttachHost subscribes a host bridge to span-set changes and layout
// notifications.
func (a *Application) AttachHost(h host.Host) error {
	if _, err := a.bus.Subscribe(event.TopicSpansChanged, func(_ event.Topic, payload any) {
		if spans, ok := payload.([]span.Span); ok {
			h.SpansChanged(spans)
		}
	}); err != nil {
		return err
	}
	_, err := a.bus.Subscribe(event.TopicLayoutChanged, func(_ event.Topic, payload any) {
		if l, ok := payload.(event.Layout); ok {
			h.LayoutChanged(l.Width, l.Height)
		}
	})
	return err
}

// Seed loads the document's initial spans into the store. Spans with
// labels outside the allowed set are silently dropped.
func (a *Application) Seed() {
	if a.store == nil {
		return
	}
	a.store.Seed(a.seed)
	a.seed = nil
	a.logger.Debug("seeded %d spans", a.store.Len())
}

// Run seeds the store and drives the terminal widget until the user
// quits. A document must be loaded first.
func (a *Application) Run() error {
	if a.model == nil || a.store == nil {
		return ErrNoDocument
	}
	if a.running {
		return ErrAlreadyRunning
	}
	a.running = true
	defer func() { a.running = false }()

	widget, err := ui.New(a, a.cfg, a.bus)
	if err != nil {
		return NewComponentError("ui", "create", err)
	}

	if a.opts.Watch && a.opts.ConfigPath != "" {
		w, err := config.NewWatcher(a.opts.ConfigPath, a.bus)
		if err != nil {
			a.logger.Warn("config watch unavailable: %v", err)
		} else {
			w.OnError = func(err error) { a.logger.Warn("config reload: %v", err) }
			a.watcher = w
			defer func() { _ = w.Close() }()
			if _, err := a.bus.Subscribe(event.TopicConfigChanged, func(_ event.Topic, payload any) {
				cfg, ok := payload.(*config.Config)
				if !ok {
					return
				}
				a.cfg = cfg
				widget.ReloadConfig(cfg)
				a.logger.Info("configuration reloaded")
			}); err != nil {
				return err
			}
		}
	}

	a.Seed()
	return widget.Run()
}

// Shutdown releases held resources.
func (a *Application) Shutdown() {
	if a.rules != nil {
		a.rules.Close()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
}

// --- ui.Controller ---

// Model returns the text model.
func (a *Application) Model() *text.Model { return a.model }

// Segments returns the current display composition.
func (a *Application) Segments() []compose.Segment {
	return compose.Compose(a.model, a.store.Editables())
}

// AllowedLabels returns the allowed labels in preference order.
func (a *Application) AllowedLabels() []string { return a.store.Allowed() }

// Select converts an inclusive rune index pair into a new span. The
// rules script, when present, may veto the create. Invalid selections
// are silent no-ops.
func (a *Application) Select(x, y int) bool {
	sp, ok := selection.Translate(a.model, x, y, a.store.Allowed())
	if !ok {
		return false
	}
	if a.rules != nil && !a.rules.AllowSpan(sp.Start, sp.End, sp.Label) {
		a.logger.Debug("span [%d,%d) vetoed by rules", sp.Start, sp.End)
		return false
	}
	return a.store.Create(sp)
}

// ToggleEdit flips the editing state of a span.
func (a *Application) ToggleEdit(id int) { a.store.ToggleEdit(id) }

// CyclePending steps the pending label of an editing span through the
// allowed list. The rules script may normalize the chosen label.
func (a *Application) CyclePending(id int, dir span.Direction) {
	labels := a.store.Allowed()
	if len(labels) == 0 {
		return
	}
	e := a.store.Get(id)
	if e == nil || !e.Editing {
		return
	}
	idx := 0
	for i, l := range labels {
		if l == e.Pending {
			idx = i
			break
		}
	}
	step := 1
	if dir == span.Left {
		step = -1
	}
	next := labels[(idx+step+len(labels))%len(labels)]
	a.store.SetPendingLabel(id, a.normalize(next))
}

// Approve commits the pending label of an editing span.
func (a *Application) Approve(id int) { a.store.Approve(id) }

// AdjustStart moves a span's start boundary one word.
func (a *Application) AdjustStart(id int, dir span.Direction) { a.store.AdjustStart(id, dir) }

// AdjustEnd moves a span's end boundary one word.
func (a *Application) AdjustEnd(id int, dir span.Direction) { a.store.AdjustEnd(id, dir) }

// Remove deletes a span.
func (a *Application) Remove(id int) { a.store.Remove(id) }

// Store exposes the span store to embedders driving the engine without
// the terminal widget.
func (a *Application) Store() *span.Store { return a.store }

// normalize passes a label through the rules script, keeping the result
// only when it is still an allowed label.
func (a *Application) normalize(label string) string {
	if a.rules == nil {
		return label
	}
	norm := a.rules.NormalizeLabel(label)
	if norm == label {
		return label
	}
	for _, l := range a.store.Allowed() {
		if l == norm {
			return norm
		}
	}
	return label
}
