package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Roles    map[string]lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Heading:  lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		Item:     lipgloss.NewStyle().Bold(true).Underline(true),
		Roles: map[string]lipgloss.Style{
			"general":  lipgloss.NewStyle().Foreground(lipgloss.Color("#7b241c")).Bold(true),
			"speaker":  lipgloss.NewStyle().Foreground(lipgloss.Color("#1e3a8a")).Bold(true),
			"listener": lipgloss.NewStyle().Foreground(lipgloss.Color("#196f3d")).Bold(true),
		},
	}
}
