package tui

import (
	"time"

	"github.com/akyairhashvil/worktime/internal/config"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Messages ---
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(config.TickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}
