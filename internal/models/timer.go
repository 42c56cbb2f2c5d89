package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("timer already running")
	ErrNotRunning     = errors.New("timer not running")
)

// Handle identifies a timer for as long as it stays in its registry.
// Handles are never reused, so they stay valid across removals of other timers.
type Handle uint64

// TickMode selects how a running timer's elapsed time reaches Accumulated.
type TickMode string

const (
	// TickLive keeps Accumulated untouched while running and recomputes
	// Display from the run's start. Time is committed on Stop.
	TickLive TickMode = "live"
	// TickFold commits the elapsed whole seconds on every tick and moves
	// StartedAt forward by the same amount.
	TickFold TickMode = "fold"
)

// ParseTickMode accepts "live" or "fold" (case-insensitive). Empty means live.
func ParseTickMode(s string) (TickMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TickLive):
		return TickLive, nil
	case string(TickFold):
		return TickFold, nil
	}
	return TickLive, fmt.Errorf("unknown tick mode %q", s)
}

// Timer is one named work-duration tracker.
// StartedAt is non-nil exactly when Running is true.
type Timer struct {
	ID          Handle
	Label       string
	Accumulated Duration // committed time
	Display     Duration // what the UI shows; equals Accumulated while idle
	Running     bool
	StartedAt   *time.Time

	// resetSkip is the part of the current run, in seconds since StartedAt,
	// that a reset discarded.
	resetSkip int64
}

// Entry is the persisted projection of a timer.
type Entry struct {
	Label    string
	Duration Duration
	Running  bool
}

// Start moves an idle timer to running.
func (t *Timer) Start(now time.Time) error {
	if t.Running {
		return ErrAlreadyRunning
	}
	started := now
	t.StartedAt = &started
	t.Running = true
	t.resetSkip = 0
	t.Display = t.Accumulated
	return nil
}

// Stop commits the time elapsed since the run started and returns to idle.
func (t *Timer) Stop(now time.Time) error {
	if !t.Running {
		return ErrNotRunning
	}
	t.Accumulated = Normalize(t.Accumulated.TotalSeconds() + t.runSeconds(now))
	t.StartedAt = nil
	t.Running = false
	t.resetSkip = 0
	t.Display = t.Accumulated
	return nil
}

// Tick refreshes Display for a running timer. Idle timers are left alone.
func (t *Timer) Tick(now time.Time, mode TickMode) {
	if !t.Running || t.StartedAt == nil {
		return
	}
	elapsed := t.runSeconds(now)
	if mode == TickFold {
		if elapsed > 0 {
			t.Accumulated = Normalize(t.Accumulated.TotalSeconds() + elapsed)
			next := t.StartedAt.Add(time.Duration(elapsed) * time.Second)
			t.StartedAt = &next
		}
		t.Display = t.Accumulated
		return
	}
	t.Display = Normalize(t.Accumulated.TotalSeconds() + elapsed)
}

// Reset zeroes the timer as of now. A running timer keeps running and
// counts again from now; StartedAt is left as it was.
func (t *Timer) Reset(now time.Time) {
	t.Accumulated = Duration{}
	t.Display = Duration{}
	if t.Running {
		t.resetSkip = t.elapsedSeconds(now)
	}
}

// Live returns the value that would be committed if the timer stopped at now.
func (t Timer) Live(now time.Time) Duration {
	if !t.Running {
		return t.Accumulated
	}
	return Normalize(t.Accumulated.TotalSeconds() + t.runSeconds(now))
}

// Entry snapshots the timer for persistence using the displayed value.
func (t Timer) Entry() Entry {
	return Entry{Label: t.Label, Duration: t.Display, Running: t.Running}
}

// runSeconds is the uncommitted time of the current run that still counts.
func (t Timer) runSeconds(now time.Time) int64 {
	if n := t.elapsedSeconds(now) - t.resetSkip; n > 0 {
		return n
	}
	return 0
}

func (t Timer) elapsedSeconds(now time.Time) int64 {
	if t.StartedAt == nil {
		return 0
	}
	d := now.Sub(*t.StartedAt)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
