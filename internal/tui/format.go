package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/charmbracelet/x/ansi"
)

// FormatDuration formats a duration for display (e.g., "2h 15m", "45s").
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, config.TruncationSuffix)
}

// padLabel truncates text to width cells and pads it with spaces.
func padLabel(text string, width int) string {
	text = truncateLabel(text, width)
	if gap := width - ansi.StringWidth(text); gap > 0 {
		text += strings.Repeat(" ", gap)
	}
	return text
}

func targetRatio(done, target time.Duration) float64 {
	if target <= 0 {
		return 0
	}
	r := float64(done) / float64(target)
	if r > 1 {
		return 1
	}
	return r
}
