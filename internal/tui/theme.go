package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name     string
	Base     lipgloss.Style
	Border   lipgloss.Color
	Header   lipgloss.Style
	Row      lipgloss.Style
	Running  lipgloss.Style
	Selected lipgloss.Style
	Input    lipgloss.Style
	Confirm  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:     "Default",
		Base:     lipgloss.NewStyle().Margin(1, 2),
		Border:   lipgloss.Color("63"),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Row:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Running:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Input:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1).Width(50),
		Confirm:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	},
	"dracula": {
		Name:     "Dracula",
		Base:     lipgloss.NewStyle().Margin(1, 2),
		Border:   lipgloss.Color("62"),                                             // Purple
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true),  // Cyan
		Row:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),            // White
		Running:  lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true), // Green
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true), // Pink
		Input:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("50")).Padding(0, 1).Width(50),
		Confirm:  lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true), // Orange
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("141")),            // Purple
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // Red
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
	},
}

// CurrentTheme holds the active theme.
var CurrentTheme = Themes["default"]

// SetTheme switches themes; unknown names are ignored.
func SetTheme(name string) {
	if t, ok := Themes[name]; ok {
		CurrentTheme = t
	}
}
