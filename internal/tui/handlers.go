package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func defaultBindings() *HandlerRegistry {
	r := NewHandlerRegistry()
	list := []inputMode{modeList}
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Handler:  handleUp,
		Modes:    list,
		Priority: 10,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Handler:  handleDown,
		Modes:    list,
		Priority: 10,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "start/stop")),
		Handler:  handleStartStop,
		Modes:    list,
		Priority: 9,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Handler:  handleAdd,
		Modes:    list,
		Priority: 8,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		Handler:  handleRename,
		Modes:    list,
		Priority: 8,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Handler:  handleReset,
		Modes:    list,
		Priority: 7,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all")),
		Handler:  handleResetAll,
		Modes:    list,
		Priority: 7,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Handler:  handleRemove,
		Modes:    list,
		Priority: 7,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Handler:  handleSave,
		Modes:    list,
		Priority: 6,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Handler:  handleHelp,
		Modes:    list,
		Priority: 1,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Handler:  handleQuit,
		Modes:    list,
		Priority: 0,
	})
	return r
}

func handleUp(m Model) (Model, tea.Cmd, bool) {
	if m.cursor > 0 {
		m.cursor--
		m.ensureVisible()
	}
	return m, nil, true
}

func handleDown(m Model) (Model, tea.Cmd, bool) {
	if m.cursor < len(m.app.Timers())-1 {
		m.cursor++
		m.ensureVisible()
	}
	return m, nil, true
}

func handleStartStop(m Model) (Model, tea.Cmd, bool) {
	h, ok := m.selected()
	if !ok {
		return m, nil, true
	}
	running, err := m.app.StartStop(h)
	switch {
	case err != nil:
		m.setError(err)
	case running:
		m.setStatus("Timer started")
	default:
		m.setStatus("Timer stopped")
	}
	return m, nil, true
}

func handleAdd(m Model) (Model, tea.Cmd, bool) {
	cmd := m.openInput(modeAdd, "")
	return m, cmd, true
}

func handleRename(m Model) (Model, tea.Cmd, bool) {
	h, ok := m.selected()
	if !ok {
		return m, nil, true
	}
	t, err := m.app.Registry().Get(h)
	if err != nil {
		m.setError(err)
		return m, nil, true
	}
	cmd := m.openInput(modeRename, t.Label)
	return m, cmd, true
}

func handleReset(m Model) (Model, tea.Cmd, bool) {
	if h, ok := m.selected(); ok {
		m.askConfirm(confirmReset, h)
	}
	return m, nil, true
}

func handleResetAll(m Model) (Model, tea.Cmd, bool) {
	if len(m.app.Timers()) > 0 {
		m.askConfirm(confirmResetAll, 0)
	}
	return m, nil, true
}

func handleRemove(m Model) (Model, tea.Cmd, bool) {
	if h, ok := m.selected(); ok {
		m.askConfirm(confirmRemove, h)
	}
	return m, nil, true
}

func handleSave(m Model) (Model, tea.Cmd, bool) {
	if err := m.app.Save(m.ctx); err != nil {
		m.setError(err)
		return m, nil, true
	}
	m.setStatus("Saved to " + m.app.Store().Location())
	return m, nil, true
}

func handleHelp(m Model) (Model, tea.Cmd, bool) {
	m.help.ShowAll = !m.help.ShowAll
	return m, nil, true
}

// handleQuit saves before quitting. When the save fails the error is shown
// and a second quit leaves without saving.
func handleQuit(m Model) (Model, tea.Cmd, bool) {
	if m.quitArmed {
		m.discard = true
	} else {
		if err := m.app.Save(m.ctx); err != nil {
			m.setError(err)
			m.status += " (press q again to quit without saving)"
			m.quitArmed = true
			return m, nil, true
		}
		m.savedOnQuit = true
	}
	m.quitting = true
	return m, tea.Quit, true
}
