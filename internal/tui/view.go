package tui

import (
	"fmt"
	"strings"

	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/akyairhashvil/worktime/internal/util"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	theme := CurrentTheme
	compact := m.width > 0 && m.width < config.CompactModeThreshold

	var b strings.Builder
	timers := m.app.Timers()
	total := m.app.Total()
	running := len(m.app.Registry().Running())

	b.WriteString(theme.Header.Render(config.AppName))
	b.WriteString(theme.Dim.Render(fmt.Sprintf(" v%s  %d timer(s), %d running", AppVersion, len(timers), running)))
	b.WriteString("\n\n")

	labelWidth := config.TargetLabelWidth
	if m.width > 0 {
		labelWidth = util.Clamp(m.width-24, config.MinLabelWidth, config.TargetLabelWidth)
	}

	if len(timers) == 0 {
		b.WriteString(theme.Dim.Render("No timers. Press a to add one."))
		b.WriteString("\n")
	}
	end := min(len(timers), m.offset+config.MaxVisibleTimers)
	if m.offset > 0 {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  ↑ %d more", m.offset)))
		b.WriteString("\n")
	}
	for i := m.offset; i < end; i++ {
		t := timers[i]
		label := t.Label
		if label == "" {
			label = "(unnamed)"
		}
		cursor := "  "
		style := theme.Row
		if t.Running {
			style = theme.Running
		}
		if i == m.cursor {
			cursor = "> "
			style = theme.Selected
		}
		marker := "  "
		if t.Running {
			marker = " ●"
		}
		row := cursor + padLabel(label, labelWidth) + "  " + t.Display.Clock() + marker
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}
	if end < len(timers) {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  ↓ %d more", len(timers)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Header.Render("Total "))
	b.WriteString(total.Clock())
	if m.target > 0 && !compact {
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(targetRatio(total.Std(), m.target)))
		b.WriteString(theme.Dim.Render(" of " + FormatDuration(m.target)))
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd, modeRename:
		title := "New timer"
		if m.mode == modeRename {
			title = "Rename timer"
		}
		b.WriteString("\n")
		b.WriteString(theme.Input.Render(title + "\n" + m.input.View()))
		b.WriteString("\n")
	case modeConfirm:
		b.WriteString("\n")
		b.WriteString(theme.Confirm.Render(m.confirmPrompt() + " [y/n]"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(theme.Error.Render(m.status))
		} else {
			b.WriteString(theme.Status.Render(m.status))
		}
		b.WriteString("\n")
	}

	if m.mode == modeList && !compact {
		b.WriteString("\n")
		b.WriteString(m.help.View(helpKeys{bindings: m.keys.Bindings(modeList)}))
	}

	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return theme.Base.Render(out)
}

func (m Model) confirmPrompt() string {
	switch m.confirm {
	case confirmResetAll:
		return "Reset all timers?"
	case confirmRemove, confirmReset:
		verb := "Reset"
		if m.confirm == confirmRemove {
			verb = "Remove"
		}
		label := "this timer"
		if t, err := m.app.Registry().Get(m.confirmHandle); err == nil && t.Label != "" {
			label = fmt.Sprintf("%q", truncateLabel(t.Label, config.TargetLabelWidth))
		}
		return verb + " " + label + "?"
	}
	return "Are you sure?"
}
