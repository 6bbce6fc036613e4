package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hochfrequenz/orgchart/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("255"))
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Header
	summary := render.Summary(len(m.entries), depthOf(m))
	header := fmt.Sprintf(" Company Hierarchy │ %s ", summary)
	if m.filter != "" {
		header += fmt.Sprintf("│ Position: %s ", m.filter)
	}
	b.WriteString(headerStyle.Width(m.width).Render(header))
	b.WriteString("\n")

	b.WriteString(m.renderTree())

	// Status bar
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(dimmedStyle.Render(m.help()))

	return b.String()
}

func (m Model) renderTree() string {
	var b strings.Builder
	rows := m.visibleRows()

	if len(m.entries) == 0 {
		b.WriteString(dimmedStyle.Render("  No company created yet."))
		b.WriteString("\n")
		rows--
	}

	end := m.scroll + rows
	if end > len(m.entries) {
		end = len(m.entries)
	}
	for i := m.scroll; i < end; i++ {
		e := m.entries[i]
		line := render.Line(e, m.indent)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render("> " + line)
		case m.isMatch(e):
			line = matchStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Pad so the status bar stays at the bottom
	for i := end - m.scroll; i < rows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus() string {
	var text string
	switch m.mode {
	case ModeFilter:
		text = " Position: " + m.input + "█"
	case ModeConfirmDelete:
		return warningStyle.Width(m.width).Render(" " + m.status)
	default:
		text = " " + m.status
	}
	return statusBarStyle.Width(m.width).Render(text)
}

func (m Model) help() string {
	switch m.mode {
	case ModeFilter:
		return "enter: apply • esc: cancel"
	case ModeConfirmDelete:
		return "y: delete • any other key: cancel"
	}
	return "j/k: move • /: find position • n: next match • d: delete • r: refresh • q: quit"
}

func depthOf(m Model) int {
	depth := 0
	for _, e := range m.entries {
		if e.Depth+1 > depth {
			depth = e.Depth + 1
		}
	}
	return depth
}
