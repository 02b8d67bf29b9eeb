package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	version   lipgloss.Style
	connected lipgloss.Style
	offline   lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	notice    lipgloss.Style
	err       lipgloss.Style
	help      lipgloss.Style
	section   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		version:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		connected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(10),
		value:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		err:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		help:      lipgloss.NewStyle().Faint(true),
		section:   lipgloss.NewStyle().MarginTop(1),
	}
}
