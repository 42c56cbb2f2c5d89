package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/akyairhashvil/worktime/internal/app"
	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const lastSavedLayout = "2006-01-02 15:04"

// inputMode is what keystrokes currently drive.
type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeRename
	modeConfirm
)

// confirmAction is the destructive operation awaiting a yes/no.
type confirmAction int

const (
	confirmReset confirmAction = iota
	confirmRemove
	confirmResetAll
)

// Model is the root bubbletea model: a list of timers with a cursor.
type Model struct {
	ctx      context.Context
	app      *app.App
	keys     *HandlerRegistry
	help     help.Model
	input    textinput.Model
	progress progress.Model
	target   time.Duration

	mode          inputMode
	confirm       confirmAction
	confirmHandle models.Handle
	cursor        int
	offset        int

	status    string
	statusErr bool
	quitArmed bool
	quitting  bool
	// savedOnQuit and discard record how a q quit ended.
	savedOnQuit bool
	discard     bool

	width, height int
}

func NewModel(ctx context.Context, a *app.App) Model {
	ti := textinput.New()
	ti.Placeholder = "Timer label..."
	ti.CharLimit = config.MaxLabelLength
	ti.Width = 40

	m := Model{
		ctx:      ctx,
		app:      a,
		keys:     defaultBindings(),
		help:     help.New(),
		input:    ti,
		progress: progress.New(progress.WithDefaultGradient()),
	}
	m.progress.Width = config.ProgressWidth
	if target, err := a.Settings().Target(); err == nil {
		m.target = target
	}
	SetTheme(a.Settings().UI.Theme)

	switch skipped := len(a.Skipped()); {
	case skipped > 0:
		m.setError(fmt.Errorf("%d malformed record(s) in %s replaced with defaults", skipped, a.Store().Location()))
	case a.FreshStart():
		m.setStatus("No saved timers at " + a.Store().Location())
	default:
		if at, ok := a.LastSaved(ctx); ok {
			m.setStatus("Last saved " + at.Local().Format(lastSavedLayout))
		}
	}
	return m
}

// NeedsSave reports whether the timers still have to be saved after the
// program exits. It is false once q saved them or the user chose to quit
// without saving.
func (m Model) NeedsSave() bool {
	return !m.savedOnQuit && !m.discard
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.app.Tick()
		return m, tickCmd()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(config.ProgressWidth, max(msg.Width-20, 10))
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.progress.Update(msg)
		m.progress = next.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeRename:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		next, cmd, _ := m.keys.Handle(m, msg)
		return next, cmd
	}
	if m.mode == modeAdd || m.mode == modeRename {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		label := m.input.Value()
		if m.mode == modeAdd {
			m.app.AddTimer(label)
			m.cursor = len(m.app.Timers()) - 1
			m.ensureVisible()
			m.setStatus("Timer added")
		} else if h, ok := m.selected(); ok {
			if err := m.app.Rename(h, label); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Timer renamed")
			}
		}
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeList
		return m.applyConfirm()
	case "n", "N", "esc":
		m.mode = modeList
		m.setStatus("Cancelled")
	}
	return m, nil
}

func (m Model) applyConfirm() (tea.Model, tea.Cmd) {
	switch m.confirm {
	case confirmReset:
		if err := m.app.Reset(m.confirmHandle); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Timer reset")
	case confirmRemove:
		err := m.app.RemoveTimer(m.ctx, m.confirmHandle)
		m.clampCursor()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Timer removed")
	case confirmResetAll:
		m.app.ResetAll()
		m.setStatus("All timers reset")
	}
	return m, nil
}

func (m *Model) openInput(mode inputMode, value string) tea.Cmd {
	m.mode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) askConfirm(action confirmAction, h models.Handle) {
	m.mode = modeConfirm
	m.confirm = action
	m.confirmHandle = h
}

// selected returns the handle under the cursor.
func (m Model) selected() (models.Handle, bool) {
	timers := m.app.Timers()
	if m.cursor < 0 || m.cursor >= len(timers) {
		return 0, false
	}
	return timers[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := len(m.app.Timers())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+config.MaxVisibleTimers {
		m.offset = m.cursor - config.MaxVisibleTimers + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
