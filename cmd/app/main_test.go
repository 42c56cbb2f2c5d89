package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akyairhashvil/worktime/internal/app"
	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/tracker"
	"github.com/rs/zerolog"
)

func TestParseFlagsRecordsExplicitFlags(t *testing.T) {
	o, err := parseFlags([]string{"-exclusive=false", "-tick", "fold"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if !o.set["exclusive"] || !o.set["tick"] || o.set["format"] {
		t.Fatalf("unexpected set flags: %v", o.set)
	}
	if _, err := parseFlags([]string{"stray"}); err == nil {
		t.Fatalf("expected error for positional args")
	}
}

func TestApplyOverrides(t *testing.T) {
	o, err := parseFlags([]string{"-store", "/tmp/w/timers.yaml", "-exclusive=false", "-tick", "fold"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	cfg := config.Default()
	if err := applyOverrides(cfg, o); err != nil {
		t.Fatalf("applyOverrides failed: %v", err)
	}
	if cfg.Store.Format != "yaml" || cfg.Store.Override != "/tmp/w/timers.yaml" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Timers.Exclusive || cfg.TickMode() != models.TickFold {
		t.Fatalf("timers = %+v", cfg.Timers)
	}
}

func TestApplyOverridesKeepsSettingsForUnsetFlags(t *testing.T) {
	o, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	cfg := config.Default()
	cfg.Timers.Exclusive = false
	if err := applyOverrides(cfg, o); err != nil {
		t.Fatalf("applyOverrides failed: %v", err)
	}
	if cfg.Timers.Exclusive {
		t.Fatalf("default flag value must not override settings")
	}
}

func TestApplyOverridesRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{{"-format", "xml"}, {"-tick", "often"}} {
		o, err := parseFlags(args)
		if err != nil {
			t.Fatalf("parseFlags failed: %v", err)
		}
		if err := applyOverrides(config.Default(), o); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestWatchPrintsRunningTimers(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Override = filepath.Join(t.TempDir(), "config.txt")
	clock := tracker.NewManualClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	a, err := app.Open(context.Background(), cfg, zerolog.Nop(), app.WithClock(clock))
	if err != nil {
		t.Fatalf("app.Open failed: %v", err)
	}
	h := a.AddTimer("deep work")
	if _, err := a.StartStop(h); err != nil {
		t.Fatalf("StartStop failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	lines := 0
	// the manual clock fires immediately, so stop after a few lines
	w := writerFunc(func(p []byte) (int, error) {
		lines++
		if lines == 3 {
			cancel()
		}
		return out.Write(p)
	})
	if err := watch(ctx, a, w, zerolog.Nop()); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %q", out.String())
	}
	if !strings.Contains(got[2], "deep work 00:00:03") {
		t.Fatalf("last line = %q", got[2])
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
