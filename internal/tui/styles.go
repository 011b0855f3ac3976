package tui

import "github.com/charmbracelet/lipgloss"

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// cell styles
var (
	plain   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	active  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	pivot   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("213"))
	settled = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("82"))
	faded   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	alarm   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160"))
)

func statusStyle(name string) lipgloss.Style {
	switch name {
	case "running":
		return green
	case "paused":
		return yellow
	case "completed":
		return cyan
	case "cancelled":
		return red
	default:
		return dim
	}
}
