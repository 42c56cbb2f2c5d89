package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler reacts to a bound key. It reports false to let lower priority
// bindings for the same key run.
type KeyHandler func(m Model) (Model, tea.Cmd, bool)

type KeyBinding struct {
	Binding  key.Binding
	Handler  KeyHandler
	Modes    []inputMode
	Priority int
}

func (b KeyBinding) AppliesTo(mode inputMode) bool {
	if len(b.Modes) == 0 {
		return true
	}
	for _, v := range b.Modes {
		if v == mode {
			return true
		}
	}
	return false
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m Model, msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if !b.Binding.Enabled() || !b.AppliesTo(m.mode) || !key.Matches(msg, b.Binding) {
			continue
		}
		if next, cmd, handled := b.Handler(m); handled {
			return next, cmd, true
		}
	}
	return m, nil, false
}

// Bindings lists the help-visible bindings for a mode in priority order.
func (r *HandlerRegistry) Bindings(mode inputMode) []key.Binding {
	var out []key.Binding
	for _, b := range r.bindings {
		if b.AppliesTo(mode) && b.Binding.Help().Desc != "" {
			out = append(out, b.Binding)
		}
	}
	return out
}

// helpKeys adapts a registry view to help.KeyMap.
type helpKeys struct {
	bindings []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding { return h.bindings }

func (h helpKeys) FullHelp() [][]key.Binding {
	const perColumn = 4
	var cols [][]key.Binding
	for i := 0; i < len(h.bindings); i += perColumn {
		end := i + perColumn
		if end > len(h.bindings) {
			end = len(h.bindings)
		}
		cols = append(cols, h.bindings[i:end])
	}
	return cols
}
