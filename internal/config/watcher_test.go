package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spanlab/spanedit/internal/event"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spanedit.toml")
	if err := os.WriteFile(path, []byte(`theme = "dark"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	bus := event.NewBus()
	reloaded := make(chan *Config, 4)
	if _, err := bus.Subscribe(event.TopicConfigChanged, func(_ event.Topic, p any) {
		if cfg, ok := p.(*Config); ok {
			reloaded <- cfg
		}
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	w, err := NewWatcher(path, bus)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`theme = "light"`), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Theme != "light" {
			t.Errorf("reloaded theme = %q, want light", cfg.Theme)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload event within timeout")
	}
}

func TestWatcherKeepsRunningOnBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spanedit.toml")
	if err := os.WriteFile(path, []byte(`theme = "dark"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	bus := event.NewBus()
	reloaded := make(chan *Config, 4)
	if _, err := bus.Subscribe(event.TopicConfigChanged, func(_ event.Topic, p any) {
		if cfg, ok := p.(*Config); ok {
			reloaded <- cfg
		}
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	w, err := NewWatcher(path, bus)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	errs := make(chan error, 4)
	w.OnError = func(err error) { errs <- err }

	// A broken write reports an error and publishes nothing.
	if err := os.WriteFile(path, []byte(`theme = "neon"`), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}
	select {
	case <-errs:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload error within timeout")
	}

	// A subsequent good write still reloads.
	if err := os.WriteFile(path, []byte(`theme = "light"`), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}
	select {
	case cfg := <-reloaded:
		if cfg.Theme != "light" {
			t.Errorf("reloaded theme = %q, want light", cfg.Theme)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload event within timeout")
	}
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spanedit.toml")
	if err := os.WriteFile(path, []byte(``), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	w, err := NewWatcher(path, event.NewBus())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
