package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		45 * time.Second:             "45s",
		10 * time.Minute:             "10m",
		2 * time.Hour:                "2h",
		2*time.Hour + 15*time.Minute: "2h 15m",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPadLabel(t *testing.T) {
	if got := padLabel("abc", 6); got != "abc   " {
		t.Fatalf("padLabel = %q", got)
	}
	got := padLabel("a very long timer label", 8)
	if ansi.StringWidth(got) != 8 {
		t.Fatalf("padLabel width = %d (%q)", ansi.StringWidth(got), got)
	}
	if truncateLabel("x", 0) != "" {
		t.Fatalf("zero width should be empty")
	}
}

func TestTargetRatio(t *testing.T) {
	if targetRatio(time.Hour, 0) != 0 {
		t.Fatalf("zero target should give 0")
	}
	if targetRatio(4*time.Hour, 8*time.Hour) != 0.5 {
		t.Fatalf("half target")
	}
	if targetRatio(10*time.Hour, 8*time.Hour) != 1 {
		t.Fatalf("ratio should cap at 1")
	}
}

func TestHandlerRegistryHelp(t *testing.T) {
	r := defaultBindings()
	bindings := r.Bindings(modeList)
	if len(bindings) == 0 {
		t.Fatalf("expected list bindings")
	}
	if len(r.Bindings(modeConfirm)) != 0 {
		t.Fatalf("confirm mode has no registry bindings")
	}
	cols := helpKeys{bindings: bindings}.FullHelp()
	n := 0
	for _, c := range cols {
		n += len(c)
	}
	if n != len(bindings) {
		t.Fatalf("FullHelp lost bindings: %d vs %d", n, len(bindings))
	}
}

func TestSetThemeIgnoresUnknown(t *testing.T) {
	t.Cleanup(func() { SetTheme("default") })
	SetTheme("dracula")
	if CurrentTheme.Name != "Dracula" {
		t.Fatalf("theme = %q", CurrentTheme.Name)
	}
	SetTheme("nope")
	if CurrentTheme.Name != "Dracula" {
		t.Fatalf("unknown theme should be ignored")
	}
}
