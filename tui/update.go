package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case ModeFilter:
			return m.updateFilter(msg), nil
		case ModeConfirmDelete:
			return m.updateConfirm(msg), nil
		}
		return m.updateBrowse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()

	case TickMsg:
		m.refresh()
		m.clampScroll()
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.refresh()
		m.status = "refreshed"
	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
	case "/":
		m.mode = ModeFilter
		m.input = ""
	case "esc":
		m.filter = ""
		m.status = ""
	case "n":
		m.nextMatch()
	case "d":
		e, ok := m.Selected()
		if !ok {
			break
		}
		if e.Depth == 0 {
			m.status = "the head of the company cannot be deleted"
			break
		}
		m.mode = ModeConfirmDelete
		m.status = fmt.Sprintf("delete %s (ID: %d) and everyone reporting to them? [y/N]", e.Employee.Name, e.Employee.ID)
	}
	m.clampScroll()
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeBrowse
		m.input = ""
	case tea.KeyEnter:
		m.mode = ModeBrowse
		m.filter = m.input
		m.input = ""
		matches := m.matchIndexes()
		if len(matches) == 0 {
			m.status = fmt.Sprintf("no employees found with position '%s'", m.filter)
		} else {
			m.cursor = matches[0]
			m.status = fmt.Sprintf("%d with position '%s'", len(matches), m.filter)
		}
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	m.clampScroll()
	return m
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	m.mode = ModeBrowse
	if msg.String() != "y" {
		m.status = "delete cancelled"
		return m
	}

	e, ok := m.Selected()
	if !ok {
		return m
	}
	if err := m.svc.DeleteByID(e.Employee.ID); err != nil {
		m.status = fmt.Sprintf("delete failed: %v", err)
		return m
	}
	m.refresh()
	m.clampScroll()
	m.status = fmt.Sprintf("deleted %s (ID: %d)", e.Employee.Name, e.Employee.ID)
	return m
}

// nextMatch moves the cursor to the next entry matching the filter, wrapping
func (m *Model) nextMatch() {
	matches := m.matchIndexes()
	if len(matches) == 0 {
		return
	}
	for _, i := range matches {
		if i > m.cursor {
			m.cursor = i
			return
		}
	}
	m.cursor = matches[0]
}

// visibleRows is how many tree lines fit between header and status bar
func (m Model) visibleRows() int {
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampScroll() {
	rows := m.visibleRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}
