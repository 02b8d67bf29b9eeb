package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderView(m model) string {
	s := m.styles

	header := s.title.Render("caff miner")
	if m.opts.Version != "" {
		header += " " + s.version.Render(m.opts.Version)
	}

	lines := []string{header, statusLine(m)}

	if m.view == viewConnected {
		stats := lipgloss.JoinVertical(
			lipgloss.Left,
			s.label.Render("Deposit")+s.value.Render(m.deposit),
			s.label.Render("Rewards")+s.value.Render(m.rewards),
		)
		lines = append(lines, s.section.Render(stats))
	}

	if m.entering {
		lines = append(lines, s.section.Render(m.input.View()))
	}

	if m.loading || m.view == viewStarting {
		lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), "Working..."))
	}
	if m.errText != "" {
		lines = append(lines, s.err.Render(m.errText))
	}
	if m.notice != "" {
		lines = append(lines, s.notice.Render(m.notice))
	}

	lines = append(lines, s.section.Render(s.help.Render(helpLine(m))))

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func statusLine(m model) string {
	switch m.view {
	case viewConnected:
		label := "Connected"
		if m.session.Active {
			label = "Connected via " + m.session.Provider.Label()
		}
		return m.styles.connected.Render(label)
	case viewDisconnected:
		return m.styles.offline.Render("Not connected")
	default:
		return m.styles.offline.Render("Restoring session")
	}
}

func helpLine(m model) string {
	if m.entering {
		return "enter confirm • esc cancel"
	}

	var keys []string
	switch m.view {
	case viewConnected:
		keys = append(keys, "d deposit", "r refresh", "x logout")
	case viewDisconnected:
		wallet := "w login with wallet"
		if !m.opts.WalletAvailable {
			wallet += " (install)"
		}
		keys = append(keys, "i login with identity", wallet)
	}

	return strings.Join(append(keys, "q quit"), " • ")
}
