package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/rs/zerolog"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func setupRegistry(t *testing.T, policy Policy) (*Registry, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	return NewRegistry(policy, clock, zerolog.Nop()), clock
}

func labels(r *Registry) []string {
	var out []string
	for _, tm := range r.Timers() {
		out = append(out, tm.Label)
	}
	return out
}

func TestRegistryScenarioCoding(t *testing.T) {
	r, clock := setupRegistry(t, DefaultPolicy())
	h := r.Add("Coding", models.Duration{})
	if _, err := r.Start(h); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(3661 * time.Second)
	if err := r.Stop(h); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	got, err := r.Get(h)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Accumulated != (models.Duration{Hours: 1, Minutes: 1, Seconds: 1}) {
		t.Fatalf("accumulated = %+v", got.Accumulated)
	}
}

func TestRegistryExclusiveStart(t *testing.T) {
	r, clock := setupRegistry(t, Policy{Exclusive: true})
	a := r.Add("A", models.Duration{})
	b := r.Add("B", models.Duration{})
	if _, err := r.Start(a); err != nil {
		t.Fatalf("Start A failed: %v", err)
	}
	clock.Advance(90 * time.Second)
	stopped, err := r.Start(b)
	if err != nil {
		t.Fatalf("Start B failed: %v", err)
	}
	if len(stopped) != 1 || stopped[0] != a {
		t.Fatalf("expected A to be stopped, got %v", stopped)
	}
	running := r.Running()
	if len(running) != 1 || running[0] != b {
		t.Fatalf("expected only B running, got %v", running)
	}
	ta, _ := r.Get(a)
	if ta.Accumulated != (models.Duration{Minutes: 1, Seconds: 30}) {
		t.Fatalf("A accumulated = %+v", ta.Accumulated)
	}
}

func TestRegistryIndependentPolicy(t *testing.T) {
	r, clock := setupRegistry(t, Policy{Exclusive: false})
	a := r.Add("A", models.Duration{})
	b := r.Add("B", models.Duration{})
	_, _ = r.Start(a)
	clock.Advance(10 * time.Second)
	_, _ = r.Start(b)
	if len(r.Running()) != 2 {
		t.Fatalf("expected both timers running")
	}
	clock.Advance(5 * time.Second)
	r.Tick(clock.Now())
	ta, _ := r.Get(a)
	tb, _ := r.Get(b)
	if ta.Display.TotalSeconds() != 15 || tb.Display.TotalSeconds() != 5 {
		t.Fatalf("displays = %v / %v", ta.Display, tb.Display)
	}
}

func TestRegistryRemoveUnknownHandle(t *testing.T) {
	r, _ := setupRegistry(t, DefaultPolicy())
	r.Add("one", models.Duration{})
	r.Add("two", models.Duration{})
	err := r.Remove(99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Handle != 99 || nf.Op != "remove" {
		t.Fatalf("expected NotFoundError for handle 99, got %#v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("registry changed after failed remove")
	}
}

func TestRegistryRemovePreservesOrderAndHandles(t *testing.T) {
	r, _ := setupRegistry(t, DefaultPolicy())
	a := r.Add("a", models.Duration{})
	b := r.Add("b", models.Duration{})
	c := r.Add("c", models.Duration{})
	if err := r.Remove(b); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	got := labels(r)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("labels = %v", got)
	}
	if err := r.Rename(c, "c2"); err != nil {
		t.Fatalf("handle c went stale after removing b: %v", err)
	}
	d := r.Add("d", models.Duration{})
	if d == a || d == b || d == c {
		t.Fatalf("handle %d reused", d)
	}
}

func TestRegistryUnknownHandleOps(t *testing.T) {
	r, _ := setupRegistry(t, DefaultPolicy())
	ops := map[string]func() error{
		"start":  func() error { _, err := r.Start(7); return err },
		"stop":   func() error { return r.Stop(7) },
		"toggle": func() error { _, err := r.StartStop(7); return err },
		"reset":  func() error { return r.ResetOne(7) },
		"rename": func() error { return r.Rename(7, "x") },
		"get":    func() error { _, err := r.Get(7); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestRegistryStartStopToggle(t *testing.T) {
	r, clock := setupRegistry(t, DefaultPolicy())
	h := r.Add("", models.Duration{Seconds: 30})
	running, err := r.StartStop(h)
	if err != nil || !running {
		t.Fatalf("expected running after first toggle, got %v, %v", running, err)
	}
	clock.Advance(45 * time.Second)
	running, err = r.StartStop(h)
	if err != nil || running {
		t.Fatalf("expected idle after second toggle, got %v, %v", running, err)
	}
	tm, _ := r.Get(h)
	if tm.Accumulated != (models.Duration{Minutes: 1, Seconds: 15}) {
		t.Fatalf("accumulated = %+v", tm.Accumulated)
	}
	if tm.StartedAt != nil {
		t.Fatalf("StartedAt should be cleared")
	}
}

func TestRegistryResetDoesNotChangeRunning(t *testing.T) {
	r, clock := setupRegistry(t, DefaultPolicy())
	a := r.Add("a", models.Duration{Hours: 2})
	b := r.Add("b", models.Duration{Minutes: 3})
	_, _ = r.Start(a)
	clock.Advance(time.Minute)
	if err := r.ResetOne(a); err != nil {
		t.Fatalf("ResetOne failed: %v", err)
	}
	if len(r.Running()) != 1 {
		t.Fatalf("reset stopped the timer")
	}
	r.ResetAll()
	tb, _ := r.Get(b)
	if !tb.Accumulated.IsZero() || !tb.Display.IsZero() {
		t.Fatalf("ResetAll left b at %+v", tb.Accumulated)
	}
}

func TestRegistryResetRunningTimerSticks(t *testing.T) {
	for _, mode := range []models.TickMode{models.TickLive, models.TickFold} {
		t.Run(string(mode), func(t *testing.T) {
			r, clock := setupRegistry(t, Policy{Exclusive: true, Tick: mode})
			h := r.Add("work", models.Duration{Minutes: 30})
			_, _ = r.Start(h)
			clock.Advance(8 * time.Hour)
			r.Tick(clock.Now())
			if err := r.ResetOne(h); err != nil {
				t.Fatalf("ResetOne failed: %v", err)
			}
			clock.Advance(time.Second)
			r.Tick(clock.Now())
			tm, _ := r.Get(h)
			if tm.Display != (models.Duration{Seconds: 1}) {
				t.Fatalf("display one second after reset = %v", tm.Display.Clock())
			}
			if got := r.Snapshot()[0].Duration; got != (models.Duration{Seconds: 1}) {
				t.Fatalf("snapshot after reset = %v", got.Clock())
			}
			if err := r.Stop(h); err != nil {
				t.Fatalf("Stop failed: %v", err)
			}
			tm, _ = r.Get(h)
			if tm.Accumulated != (models.Duration{Seconds: 1}) {
				t.Fatalf("committed after stop = %v", tm.Accumulated.Clock())
			}
		})
	}
}

func TestRegistryTickModes(t *testing.T) {
	for _, mode := range []models.TickMode{models.TickLive, models.TickFold} {
		mode := mode
		t.Run(string(mode), func(t *testing.T) {
			r, clock := setupRegistry(t, Policy{Exclusive: true, Tick: mode})
			h := r.Add("x", models.Duration{Minutes: 1})
			_, _ = r.Start(h)
			for i := 0; i < 5; i++ {
				clock.Advance(time.Second)
				r.Tick(clock.Now())
			}
			tm, _ := r.Get(h)
			if tm.Display != (models.Duration{Minutes: 1, Seconds: 5}) {
				t.Fatalf("display = %+v", tm.Display)
			}
			wantCommitted := int64(60)
			if mode == models.TickFold {
				wantCommitted = 65
			}
			if tm.Accumulated.TotalSeconds() != wantCommitted {
				t.Fatalf("accumulated = %d, want %d", tm.Accumulated.TotalSeconds(), wantCommitted)
			}
			clock.Advance(2 * time.Second)
			_ = r.Stop(h)
			tm, _ = r.Get(h)
			if tm.Accumulated.TotalSeconds() != 67 {
				t.Fatalf("final = %d, want 67", tm.Accumulated.TotalSeconds())
			}
		})
	}
}

func TestRegistrySnapshotAndLoad(t *testing.T) {
	r, clock := setupRegistry(t, DefaultPolicy())
	a := r.Add("Coding", models.Duration{Hours: 1})
	r.Add("Review", models.Duration{Minutes: 2})
	_, _ = r.Start(a)
	clock.Advance(30 * time.Second)

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Duration != (models.Duration{Hours: 1, Seconds: 30}) || !snap[0].Running {
		t.Fatalf("snapshot = %+v", snap)
	}
	ta, _ := r.Get(a)
	if ta.Accumulated != (models.Duration{Hours: 1}) {
		t.Fatalf("snapshot must not commit, accumulated = %+v", ta.Accumulated)
	}

	fresh, freshClock := setupRegistry(t, DefaultPolicy())
	fresh.Load(snap, false)
	if len(fresh.Running()) != 0 {
		t.Fatalf("running flag should not resume when resume=false")
	}
	resumed, _ := setupRegistry(t, DefaultPolicy())
	handles := resumed.Load(snap, true)
	if got := resumed.Running(); len(got) != 1 || got[0] != handles[0] {
		t.Fatalf("expected first timer resumed, got %v", got)
	}
	tm, _ := resumed.Get(handles[0])
	if !tm.StartedAt.Equal(freshClock.Now()) {
		t.Fatalf("resumed timer should start at load time")
	}
}

func TestRegistryTotalAndStopAll(t *testing.T) {
	r, clock := setupRegistry(t, Policy{Exclusive: false})
	a := r.Add("a", models.Duration{Minutes: 30})
	b := r.Add("b", models.Duration{Minutes: 45})
	_, _ = r.Start(a)
	_, _ = r.Start(b)
	clock.Advance(time.Minute)
	r.Tick(clock.Now())
	if got := r.Total(); got != (models.Duration{Hours: 1, Minutes: 17}) {
		t.Fatalf("Total = %+v", got)
	}
	r.StopAll()
	if len(r.Running()) != 0 {
		t.Fatalf("StopAll left timers running")
	}
}
